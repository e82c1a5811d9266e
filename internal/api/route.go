package api

import (
	"Atelier/internal/api/middleware"
	"Atelier/internal/pkg/consts"
	"Atelier/internal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.AuditMiddleware())
	r.Use(middleware.CORSMiddleware())
	logger.SetupGin(r)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"Code":    200,
				"Message": "pong",
				"Data":    nil,
			})
		})

		userGroup := apiGroup.Group("/user")
		{
			// 无需登录即可访问的接口
			userGroup.POST("/register", group.UserHandler.Register)
			userGroup.POST("/login", group.UserHandler.Login)
			userGroup.GET("/:user_id/simple", group.UserHandler.GetUserSimpleInfoById)

			authGroup := userGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.POST("/logout", group.UserHandler.Logout)
				authGroup.GET("/info", group.UserHandler.GetUserInfo)
				authGroup.PUT("/info", group.UserHandler.UpdateUserInfo)
				authGroup.PUT("/password", group.UserHandler.ChangePassword)
				authGroup.POST("/avatar", group.MediaHandler.UploadAvatar)
			}

			// 需要登录 & 拥有 admin 角色
			adminGroup := authGroup.Group("")
			adminGroup.Use(middleware.CheckRoles(consts.RoleAdmin))
			{
				adminGroup.POST("/:user_id/ban", group.UserHandler.BanUser)
				adminGroup.POST("/:user_id/unban", group.UserHandler.UnbanUser)
			}
		}

		painterGroup := apiGroup.Group("/painters")
		{
			authOptGroup := painterGroup.Group("")
			authOptGroup.Use(middleware.AuthOptionalMiddleware())
			{
				authOptGroup.GET("/search", group.PainterHandler.Search)
				authOptGroup.GET("/:painter_id", group.PainterHandler.GetDetail)
				authOptGroup.GET("/:painter_id/reviews", group.ReviewHandler.ListReviews)
			}

			authGroup := painterGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.POST("/apply", group.PainterHandler.Apply)
				authGroup.GET("/self", group.PainterHandler.GetMine)
				authGroup.PUT("/self", group.PainterHandler.UpdateProfile)
				authGroup.GET("/self/dashboard", group.PainterHandler.GetDashboard)
				authGroup.POST("/self/portfolio", group.PainterHandler.AddPortfolioImage)
				authGroup.DELETE("/self/portfolio/:image_id", group.PainterHandler.DeletePortfolioImage)

				authGroup.POST("/:painter_id/reviews", group.ReviewHandler.CreateReview)
				authGroup.PUT("/:painter_id/reviews", group.ReviewHandler.UpdateReview)
				authGroup.DELETE("/:painter_id/reviews", group.ReviewHandler.DeleteReview)

				authGroup.POST("/:painter_id/conversation", group.IMHandler.CreateConversation)

				authGroup.POST("/:painter_id/favorite", group.FavoriteHandler.AddFavorite)
				authGroup.DELETE("/:painter_id/favorite", group.FavoriteHandler.RemoveFavorite)
				authGroup.GET("/:painter_id/favorite", group.FavoriteHandler.IsFavorite)
			}

			// 审核队列仅管理员可见
			adminGroup := painterGroup.Group("/audit")
			adminGroup.Use(middleware.AuthMiddleware(), middleware.CheckRoles(consts.RoleAdmin))
			{
				adminGroup.GET("/pending", group.PainterHandler.ListPending)
				adminGroup.POST("/:painter_id", group.PainterHandler.Moderate)
			}
		}

		favoriteGroup := apiGroup.Group("/favorites")
		favoriteGroup.Use(middleware.AuthMiddleware())
		{
			favoriteGroup.GET("", group.FavoriteHandler.ListFavorites)
		}

		galleryGroup := apiGroup.Group("/gallery")
		{
			authOptGroup := galleryGroup.Group("")
			authOptGroup.Use(middleware.AuthOptionalMiddleware())
			{
				authOptGroup.GET("/posts", group.GalleryHandler.ListPosts)
				authOptGroup.GET("/posts/:post_id", group.GalleryHandler.GetPost)
				authOptGroup.GET("/posts/:post_id/comments", group.GalleryHandler.ListComments)
				authOptGroup.GET("/users/:user_id/posts", group.GalleryHandler.ListPostsByUser)
			}

			authGroup := galleryGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.POST("/posts", group.GalleryHandler.CreatePost)
				authGroup.DELETE("/posts/:post_id", group.GalleryHandler.DeletePost)
				authGroup.POST("/posts/:post_id/like", group.GalleryHandler.LikePost)
				authGroup.DELETE("/posts/:post_id/like", group.GalleryHandler.UnlikePost)
				authGroup.POST("/posts/:post_id/comments", group.GalleryHandler.CreateComment)
				authGroup.DELETE("/comments/:comment_id", group.GalleryHandler.DeleteComment)
			}
		}

		imGroup := apiGroup.Group("/im")
		{
			imGroup.GET("", group.WSHandler.Connect)
			authGroup := imGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.GET("/conversations", group.IMHandler.GetConversationList)
				authGroup.POST("/send", group.IMHandler.SendMessage)
				authGroup.GET("/conversations/:conv_id/history", group.IMHandler.GetChatHistory)
				authGroup.GET("/conversations/:conv_id/sync", group.IMHandler.SyncMessages)
				authGroup.POST("/conversations/:conv_id/read", group.IMHandler.MarkAsRead)
			}
		}

		notifyGroup := apiGroup.Group("/notifications")
		notifyGroup.Use(middleware.AuthMiddleware())
		{
			notifyGroup.GET("", group.NotificationHandler.GetNotificationList)
			notifyGroup.GET("/unread", group.NotificationHandler.GetUnreadCount)
			notifyGroup.POST("/:msg_id/read", group.NotificationHandler.MarkRead)
			notifyGroup.POST("/read/all", group.NotificationHandler.MarkAllRead)
		}

		mediaGroup := apiGroup.Group("/media")
		{
			mediaGroup.Use(middleware.AuthMiddleware())
			mediaGroup.POST("/upload", group.MediaHandler.Upload)
			mediaGroup.POST("/attachment", group.MediaHandler.UploadAttachment)
		}
	}

	return r
}
