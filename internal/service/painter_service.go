package service

import (
	"Atelier/internal/api/dto"
	"Atelier/internal/model"
	"Atelier/internal/pkg/consts"
	"Atelier/internal/pkg/es"
	"Atelier/internal/pkg/kafka"
	"Atelier/internal/pkg/minio"
	"Atelier/internal/pkg/redis"
	"Atelier/internal/repository"
	"context"
	log "log/slog"
	"strconv"
)

type PainterService interface {
	Apply(ctx context.Context, userID uint64, applyDTO *dto.PainterApplyDTO) error
	GetPainterDetail(ctx context.Context, id uint64, viewerID uint64, isAdmin bool) (*dto.PainterDTO, error)
	GetMyPainter(ctx context.Context, userID uint64) (*dto.PainterDTO, error)
	GetDashboard(ctx context.Context, userID uint64) (*dto.PainterDashboardDTO, error)
	UpdateProfile(ctx context.Context, userID uint64, updateDTO *dto.PainterUpdateDTO) error
	ListPending(ctx context.Context, page, pageSize int) (*dto.PageResult, error)
	Moderate(ctx context.Context, painterID uint64, moderateDTO *dto.PainterModerateDTO) error
	Search(ctx context.Context, searchDTO *dto.PainterSearchDTO) ([]*dto.PainterDTO, error)
	AddPortfolioImage(ctx context.Context, userID uint64, url, title string) error
	DeletePortfolioImage(ctx context.Context, userID, imageID uint64) error
	DeindexByUser(ctx context.Context, userID uint64) error
	ReindexByUser(ctx context.Context, userID uint64) error
}

type PainterServiceImpl struct {
	painterRepo    repository.PainterRepo
	roleRepo       repository.RoleRepo
	convRepo       repository.ConversationRepo
	painterESRepo  es.PainterRepo
	notifyProducer kafka.NotifyProducer
}

func NewPainterService(
	painterRepo repository.PainterRepo,
	roleRepo repository.RoleRepo,
	convRepo repository.ConversationRepo,
	painterESRepo es.PainterRepo,
	notifyProducer kafka.NotifyProducer,
) PainterService {
	return &PainterServiceImpl{
		painterRepo:    painterRepo,
		roleRepo:       roleRepo,
		convRepo:       convRepo,
		painterESRepo:  painterESRepo,
		notifyProducer: notifyProducer,
	}
}

// Apply 提交画师入驻申请，进入待审核队列
func (s *PainterServiceImpl) Apply(ctx context.Context, userID uint64, applyDTO *dto.PainterApplyDTO) error {
	if applyDTO.PriceMin > applyDTO.PriceMax {
		return ErrParamInvalid
	}

	existing, err := s.painterRepo.GetPainterByUserId(ctx, userID)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrPainterExist
	}

	painter := &model.Painter{
		UserID:       userID,
		Bio:          applyDTO.Bio,
		Location:     applyDTO.Location,
		Availability: applyDTO.Availability,
		Level:        applyDTO.Level,
		PriceMin:     applyDTO.PriceMin,
		PriceMax:     applyDTO.PriceMax,
		Status:       consts.PainterStatusPending,
	}

	portfolio := make([]*model.PortfolioImage, 0, len(applyDTO.Portfolio))
	for i, url := range applyDTO.Portfolio {
		portfolio = append(portfolio, &model.PortfolioImage{
			URL:       url,
			SortOrder: i,
		})
	}

	if err = s.painterRepo.CreatePainter(ctx, painter, applyDTO.Styles, portfolio); err != nil {
		if isDuplicateError(err) {
			return ErrPainterExist
		}
		return err
	}

	return nil
}

// GetPainterDetail 画师详情，未过审档案仅本人和管理员可见
func (s *PainterServiceImpl) GetPainterDetail(ctx context.Context, id uint64, viewerID uint64, isAdmin bool) (*dto.PainterDTO, error) {
	painter, err := s.painterRepo.GetPainterById(ctx, id)
	if err != nil {
		return nil, err
	}
	if painter == nil {
		return nil, ErrPainterNotFound
	}

	if painter.Status != consts.PainterStatusApproved && painter.UserID != viewerID && !isAdmin {
		return nil, ErrPainterNotFound
	}

	// 浏览计数尽力而为
	if painter.Status == consts.PainterStatusApproved && viewerID != painter.UserID {
		viewKey := consts.PainterViewCountKey + strconv.FormatUint(id, 10)
		if err = redis.Incr(ctx, viewKey); err != nil {
			log.WarnContext(ctx, "incr painter view count error", "pid", id, "err", err)
		}
	}

	return s.toPainterDTO(painter, painter.UserID == viewerID || isAdmin), nil
}

func (s *PainterServiceImpl) GetMyPainter(ctx context.Context, userID uint64) (*dto.PainterDTO, error) {
	painter, err := s.painterRepo.GetPainterByUserId(ctx, userID)
	if err != nil {
		return nil, err
	}
	if painter == nil {
		return nil, ErrPainterNotFound
	}

	full, err := s.painterRepo.GetPainterById(ctx, painter.ID)
	if err != nil {
		return nil, err
	}
	return s.toPainterDTO(full, true), nil
}

// GetDashboard 画师工作台统计，浏览数取自 Redis 计数
func (s *PainterServiceImpl) GetDashboard(ctx context.Context, userID uint64) (*dto.PainterDashboardDTO, error) {
	painter, err := s.painterRepo.GetPainterByUserId(ctx, userID)
	if err != nil {
		return nil, err
	}
	if painter == nil {
		return nil, ErrPainterNotFound
	}

	conversations, err := s.convRepo.CountForPainter(ctx, painter.ID)
	if err != nil {
		return nil, err
	}

	views, err := redis.GetInt64(ctx, consts.PainterViewCountKey+strconv.FormatUint(painter.ID, 10))
	if err != nil {
		log.WarnContext(ctx, "load painter view count error", "pid", painter.ID, "err", err)
		views = 0
	}

	return &dto.PainterDashboardDTO{
		Views:         views,
		Favorites:     painter.FavoriteCount,
		Reviews:       painter.ReviewCount,
		Conversations: conversations,
		Rating:        painter.Rating,
	}, nil
}

func (s *PainterServiceImpl) UpdateProfile(ctx context.Context, userID uint64, updateDTO *dto.PainterUpdateDTO) error {
	painter, err := s.painterRepo.GetPainterByUserId(ctx, userID)
	if err != nil {
		return err
	}
	if painter == nil {
		return ErrPainterNotFound
	}

	if updateDTO.Bio != nil {
		painter.Bio = *updateDTO.Bio
	}
	if updateDTO.Location != nil {
		painter.Location = *updateDTO.Location
	}
	if updateDTO.Availability != nil {
		painter.Availability = *updateDTO.Availability
	}
	if updateDTO.Level != nil {
		painter.Level = *updateDTO.Level
	}
	if updateDTO.PriceMin != nil {
		painter.PriceMin = *updateDTO.PriceMin
	}
	if updateDTO.PriceMax != nil {
		painter.PriceMax = *updateDTO.PriceMax
	}
	if painter.PriceMin > painter.PriceMax {
		return ErrParamInvalid
	}

	if err = s.painterRepo.UpdateProfile(ctx, painter, updateDTO.Styles); err != nil {
		return err
	}

	if painter.Status == consts.PainterStatusApproved {
		s.reindexPainter(ctx, painter.ID)
	}
	return nil
}

// ListPending 管理员审核队列
func (s *PainterServiceImpl) ListPending(ctx context.Context, page, pageSize int) (*dto.PageResult, error) {
	offset := (page - 1) * pageSize
	painters, total, err := s.painterRepo.ListByStatus(ctx, consts.PainterStatusPending, offset, pageSize)
	if err != nil {
		return nil, err
	}

	list := make([]*dto.PainterDTO, 0, len(painters))
	for _, p := range painters {
		list = append(list, s.toPainterDTO(p, true))
	}

	return &dto.PageResult{
		List:     list,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// Moderate 审核：通过则授予画师角色并写入搜索索引，驳回则记录原因
// 两种结果都会向申请人投递站内通知
func (s *PainterServiceImpl) Moderate(ctx context.Context, painterID uint64, moderateDTO *dto.PainterModerateDTO) error {
	painter, err := s.painterRepo.GetPainterById(ctx, painterID)
	if err != nil {
		return err
	}
	if painter == nil {
		return ErrPainterNotFound
	}
	if painter.Status != consts.PainterStatusPending {
		return ErrPainterNotPending
	}

	if moderateDTO.Approve {
		if _, err = s.painterRepo.UpdateStatus(ctx, painterID, consts.PainterStatusApproved, nil); err != nil {
			return err
		}

		if err = s.roleRepo.AddRoleToUser(ctx, painter.UserID, consts.RolePainterID); err != nil && !isDuplicateError(err) {
			return err
		}

		s.reindexPainter(ctx, painterID)

		s.notifyProducer.Send(ctx, &kafka.NotifyEvent{
			ReceiverID: painter.UserID,
			Type:       consts.NotifyTypePainterApproved,
			Title:      "入驻审核通过",
			Content:    "你的画师入驻申请已通过审核",
			Link:       "/painters/" + strconv.FormatUint(painterID, 10),
		})
		return nil
	}

	if _, err = s.painterRepo.UpdateStatus(ctx, painterID, consts.PainterStatusRejected, moderateDTO.Reason); err != nil {
		return err
	}

	// 驳回的档案不留在搜索索引里
	if err = s.painterESRepo.DeletePainter(ctx, painterID); err != nil {
		log.WarnContext(ctx, "deindex painter error", "pid", painterID, "err", err)
	}

	content := "你的画师入驻申请未通过审核"
	if moderateDTO.Reason != nil && *moderateDTO.Reason != "" {
		content += "：" + *moderateDTO.Reason
	}
	s.notifyProducer.Send(ctx, &kafka.NotifyEvent{
		ReceiverID: painter.UserID,
		Type:       consts.NotifyTypePainterRejected,
		Title:      "入驻审核未通过",
		Content:    content,
	})
	return nil
}

// Search 走 ES，索引中只有过审画师；无条件时按评分取默认榜单
// ES 不可用时降级为数据库列表，保证浏览不中断
func (s *PainterServiceImpl) Search(ctx context.Context, searchDTO *dto.PainterSearchDTO) ([]*dto.PainterDTO, error) {
	page := searchDTO.Page
	if page < 1 {
		page = 1
	}
	pageSize := searchDTO.PageSize
	if pageSize < 1 || pageSize > 50 {
		pageSize = 20
	}
	from := (page - 1) * pageSize

	var docs []*es.PainterES
	var err error
	if searchDTO.Keyword == "" && searchDTO.Style == "" && searchDTO.Level == "" && searchDTO.PriceMax == 0 {
		docs, err = s.painterESRepo.GetTopRated(ctx, from, pageSize)
	} else {
		filter := es.PainterSearchFilter{
			Style:    searchDTO.Style,
			Level:    searchDTO.Level,
			PriceMax: searchDTO.PriceMax,
		}
		docs, err = s.painterESRepo.SearchPainters(ctx, searchDTO.Keyword, filter, from, pageSize)
	}
	if err != nil {
		log.WarnContext(ctx, "search painters via es error, fallback to db", "err", err)
		return s.listApprovedFromDB(ctx, from, pageSize)
	}

	list := make([]*dto.PainterDTO, 0, len(docs))
	for _, doc := range docs {
		list = append(list, &dto.PainterDTO{
			ID:            doc.ID,
			UserID:        doc.UserID,
			Nickname:      doc.Nickname,
			AvatarURL:     minio.GetPublicURL(doc.Avatar),
			Bio:           doc.Bio,
			Location:      doc.Location,
			Availability:  doc.Availability,
			Level:         doc.Level,
			Styles:        doc.Styles,
			PriceMin:      doc.PriceMin,
			PriceMax:      doc.PriceMax,
			Rating:        doc.Rating,
			ReviewCount:   doc.ReviewCount,
			FavoriteCount: doc.FavoriteCount,
			CreatedAt:     doc.CreatedAt,
		})
	}
	return list, nil
}

// listApprovedFromDB 搜索降级路径，只按过审状态分页
func (s *PainterServiceImpl) listApprovedFromDB(ctx context.Context, offset, limit int) ([]*dto.PainterDTO, error) {
	painters, _, err := s.painterRepo.ListByStatus(ctx, consts.PainterStatusApproved, offset, limit)
	if err != nil {
		return nil, err
	}
	list := make([]*dto.PainterDTO, 0, len(painters))
	for _, p := range painters {
		list = append(list, s.toPainterDTO(p, false))
	}
	return list, nil
}

func (s *PainterServiceImpl) AddPortfolioImage(ctx context.Context, userID uint64, url, title string) error {
	painter, err := s.painterRepo.GetPainterByUserId(ctx, userID)
	if err != nil {
		return err
	}
	if painter == nil {
		return ErrPainterNotFound
	}

	return s.painterRepo.AddPortfolioImage(ctx, &model.PortfolioImage{
		PainterID: painter.ID,
		URL:       url,
		Title:     title,
		SortOrder: len(painter.Portfolio),
	})
}

func (s *PainterServiceImpl) DeletePortfolioImage(ctx context.Context, userID, imageID uint64) error {
	painter, err := s.painterRepo.GetPainterByUserId(ctx, userID)
	if err != nil {
		return err
	}
	if painter == nil {
		return ErrPainterNotFound
	}

	var objectKey string
	for _, img := range painter.Portfolio {
		if img.ID == imageID {
			objectKey = img.URL
			break
		}
	}

	rows, err := s.painterRepo.DeletePortfolioImage(ctx, painter.ID, imageID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrParamInvalid
	}

	// 对象存储清理尽力而为，残留对象不影响业务
	if objectKey != "" {
		if err = minio.DeleteFile(ctx, objectKey); err != nil {
			log.WarnContext(ctx, "delete portfolio object error", "url", objectKey, "err", err)
		}
	}
	return nil
}

// DeindexByUser 用户被封禁时将其画师档案移出搜索索引
func (s *PainterServiceImpl) DeindexByUser(ctx context.Context, userID uint64) error {
	painter, err := s.painterRepo.GetPainterByUserId(ctx, userID)
	if err != nil {
		return err
	}
	if painter == nil {
		return nil
	}
	return s.painterESRepo.DeletePainter(ctx, painter.ID)
}

// ReindexByUser 解封后恢复过审档案的搜索可见性
func (s *PainterServiceImpl) ReindexByUser(ctx context.Context, userID uint64) error {
	painter, err := s.painterRepo.GetPainterByUserId(ctx, userID)
	if err != nil {
		return err
	}
	if painter == nil || painter.Status != consts.PainterStatusApproved {
		return nil
	}
	s.reindexPainter(ctx, painter.ID)
	return nil
}

// reindexPainter 重建画师搜索文档，失败只记录日志
func (s *PainterServiceImpl) reindexPainter(ctx context.Context, painterID uint64) {
	painter, err := s.painterRepo.GetPainterById(ctx, painterID)
	if err != nil || painter == nil {
		log.ErrorContext(ctx, "load painter for indexing error", "pid", painterID, "err", err)
		return
	}

	styles := make([]string, 0, len(painter.Styles))
	for _, st := range painter.Styles {
		styles = append(styles, st.Style)
	}

	doc := &es.PainterES{
		ID:            painter.ID,
		UserID:        painter.UserID,
		Nickname:      painter.User.UserDetail.Nickname,
		Avatar:        painter.User.UserDetail.AvatarURL,
		Bio:           painter.Bio,
		Location:      painter.Location,
		Availability:  painter.Availability,
		Styles:        styles,
		Level:         painter.Level,
		PriceMin:      painter.PriceMin,
		PriceMax:      painter.PriceMax,
		Rating:        painter.Rating,
		ReviewCount:   painter.ReviewCount,
		FavoriteCount: painter.FavoriteCount,
		CreatedAt:     painter.CreatedAt,
		UpdatedAt:     painter.UpdatedAt,
	}

	if err = s.painterESRepo.IndexPainter(ctx, doc, painter.Version); err != nil {
		log.ErrorContext(ctx, "index painter error", "pid", painterID, "err", err)
	}
}

func (s *PainterServiceImpl) toPainterDTO(painter *model.Painter, includePrivate bool) *dto.PainterDTO {
	styles := make([]string, 0, len(painter.Styles))
	for _, st := range painter.Styles {
		styles = append(styles, st.Style)
	}

	portfolio := make([]dto.PortfolioImageDTO, 0, len(painter.Portfolio))
	for _, img := range painter.Portfolio {
		portfolio = append(portfolio, dto.PortfolioImageDTO{
			ID:    img.ID,
			URL:   minio.GetPublicURL(img.URL),
			Title: img.Title,
		})
	}

	d := &dto.PainterDTO{
		ID:            painter.ID,
		UserID:        painter.UserID,
		Nickname:      painter.User.UserDetail.Nickname,
		AvatarURL:     minio.GetPublicURL(painter.User.UserDetail.AvatarURL),
		Bio:           painter.Bio,
		Location:      painter.Location,
		Availability:  painter.Availability,
		Level:         painter.Level,
		Styles:        styles,
		PriceMin:      painter.PriceMin,
		PriceMax:      painter.PriceMax,
		Rating:        painter.Rating,
		ReviewCount:   painter.ReviewCount,
		FavoriteCount: painter.FavoriteCount,
		Portfolio:     portfolio,
		CreatedAt:     painter.CreatedAt,
	}
	if includePrivate {
		d.Status = painter.Status
		d.RejectReason = painter.RejectReason
	}
	return d
}
