package wire

import (
	"Atelier/internal/api"
	"Atelier/internal/api/config"
	"Atelier/internal/api/handler"
	"Atelier/internal/job"
	"Atelier/internal/pkg/cron"
	"Atelier/internal/pkg/es"
	"Atelier/internal/pkg/kafka"
	"Atelier/internal/pkg/mongo"
	"Atelier/internal/repository"
	"Atelier/internal/service"

	"github.com/gin-gonic/gin"
	mongodrv "go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router       *gin.Engine
	DB           *gorm.DB
	KafkaManager *kafka.ConsumerManager
	CronMgr      *cron.Manager
	IMService    service.IMService
	Producer     kafka.NotifyProducer
}

func BuildApplication(db *gorm.DB, mongoDB *mongodrv.Database, cfg *config.Config) (*ApplicationContainer, error) {
	// 仓储层
	userRepo := repository.NewUserRepo(db)
	roleRepo := repository.NewRoleRepo(db)
	painterRepo := repository.NewPainterRepo(db)
	reviewRepo := repository.NewReviewRepo(db)
	favoriteRepo := repository.NewFavoriteRepo(db)
	galleryRepo := repository.NewGalleryRepo(db)
	convRepo := repository.NewConversationRepo(db)
	messageRepo := mongo.NewMessageRepo(mongoDB)
	notificationRepo := mongo.NewNotificationRepo(mongoDB)
	painterESRepo := es.NewPainterRepo(es.Client)

	// 通知生产者
	notifyProducer, err := kafka.NewNotifyProducer(cfg)
	if err != nil {
		return nil, err
	}

	// 服务层
	userService := service.NewUserService(userRepo, roleRepo)
	painterService := service.NewPainterService(painterRepo, roleRepo, convRepo, painterESRepo, notifyProducer)
	reviewService := service.NewReviewService(reviewRepo, painterRepo, notifyProducer)
	favoriteService := service.NewFavoriteService(favoriteRepo, painterRepo, notifyProducer)
	galleryService := service.NewGalleryService(galleryRepo, notifyProducer)
	notificationService := service.NewNotificationService(notificationRepo, userService)
	imService := service.NewIMService(convRepo, painterRepo, messageRepo, userService, notifyProducer)

	handlers := &api.HandlersGroup{
		UserHandler:         handler.NewUserHandler(userService, painterService),
		PainterHandler:      handler.NewPainterHandler(painterService),
		ReviewHandler:       handler.NewReviewHandler(reviewService),
		FavoriteHandler:     handler.NewFavoriteHandler(favoriteService),
		GalleryHandler:      handler.NewGalleryHandler(galleryService),
		NotificationHandler: handler.NewNotificationHandler(notificationService),
		IMHandler:           handler.NewIMHandler(imService),
		WSHandler:           handler.NewWsHandler(imService),
		MediaHandler:        handler.NewMediaHandler(userService),
	}

	router := api.SetupRouter(handlers)

	kafkaMgr, err := kafka.NewConsumerManager(cfg, notificationRepo)
	if err != nil {
		return nil, err
	}

	ratingJob := job.NewPainterRatingJob(reviewRepo, painterRepo, painterESRepo)
	cronMgr := cron.NewCronManager(ratingJob)

	return &ApplicationContainer{
		Router:       router,
		DB:           db,
		KafkaManager: kafkaMgr,
		CronMgr:      cronMgr,
		IMService:    imService,
		Producer:     notifyProducer,
	}, nil
}
