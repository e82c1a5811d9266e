package service

import (
	"Atelier/internal/api/dto"
	"Atelier/internal/model"
	"Atelier/internal/pkg/consts"
	"Atelier/internal/pkg/kafka"
	"Atelier/internal/pkg/minio"
	"Atelier/internal/repository"
	"context"
	log "log/slog"
	"strconv"
)

type GalleryService interface {
	CreatePost(ctx context.Context, userID uint64, createDTO *dto.GalleryPostCreateDTO) (uint64, error)
	GetPost(ctx context.Context, id uint64, viewerID uint64) (*dto.GalleryPostDTO, error)
	ListPosts(ctx context.Context, viewerID uint64, style string, page, pageSize int) (*dto.PageResult, error)
	ListPostsByUser(ctx context.Context, userID uint64, page, pageSize int) (*dto.PageResult, error)
	DeletePost(ctx context.Context, userID, id uint64) error

	LikePost(ctx context.Context, userID, postID uint64) error
	UnlikePost(ctx context.Context, userID, postID uint64) error

	CreateComment(ctx context.Context, userID, postID uint64, commentDTO *dto.GalleryCommentCreateDTO) (uint64, error)
	ListComments(ctx context.Context, postID uint64, page, pageSize int) (*dto.PageResult, error)
	DeleteComment(ctx context.Context, userID, commentID uint64) error
}

type GalleryServiceImpl struct {
	galleryRepo    repository.GalleryRepo
	notifyProducer kafka.NotifyProducer
}

func NewGalleryService(galleryRepo repository.GalleryRepo, notifyProducer kafka.NotifyProducer) GalleryService {
	return &GalleryServiceImpl{
		galleryRepo:    galleryRepo,
		notifyProducer: notifyProducer,
	}
}

func (s *GalleryServiceImpl) CreatePost(ctx context.Context, userID uint64, createDTO *dto.GalleryPostCreateDTO) (uint64, error) {
	post := &model.GalleryPost{
		UserID:    userID,
		PainterID: createDTO.PainterID,
		Title:     createDTO.Title,
		Content:   createDTO.Content,
		Style:     createDTO.Style,
		ImageURL:  createDTO.ImageURL,
	}
	if err := s.galleryRepo.CreatePost(ctx, post); err != nil {
		return 0, err
	}
	return post.ID, nil
}

func (s *GalleryServiceImpl) GetPost(ctx context.Context, id uint64, viewerID uint64) (*dto.GalleryPostDTO, error) {
	post, err := s.galleryRepo.GetPostById(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	return s.toPostDTO(ctx, post, viewerID), nil
}

func (s *GalleryServiceImpl) ListPosts(ctx context.Context, viewerID uint64, style string, page, pageSize int) (*dto.PageResult, error) {
	offset := (page - 1) * pageSize
	posts, total, err := s.galleryRepo.ListPosts(ctx, style, offset, pageSize)
	if err != nil {
		return nil, err
	}

	list := make([]*dto.GalleryPostDTO, 0, len(posts))
	for _, p := range posts {
		list = append(list, s.toPostDTO(ctx, p, viewerID))
	}

	return &dto.PageResult{
		List:     list,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

func (s *GalleryServiceImpl) ListPostsByUser(ctx context.Context, userID uint64, page, pageSize int) (*dto.PageResult, error) {
	offset := (page - 1) * pageSize
	posts, total, err := s.galleryRepo.ListPostsByUser(ctx, userID, offset, pageSize)
	if err != nil {
		return nil, err
	}

	list := make([]*dto.GalleryPostDTO, 0, len(posts))
	for _, p := range posts {
		list = append(list, s.toPostDTO(ctx, p, 0))
	}

	return &dto.PageResult{
		List:     list,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

func (s *GalleryServiceImpl) DeletePost(ctx context.Context, userID, id uint64) error {
	rows, err := s.galleryRepo.DeletePost(ctx, id, userID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrPostNotFound
	}
	return nil
}

func (s *GalleryServiceImpl) LikePost(ctx context.Context, userID, postID uint64) error {
	post, err := s.galleryRepo.GetPostById(ctx, postID)
	if err != nil {
		return err
	}
	if post == nil {
		return ErrPostNotFound
	}

	err = performAction(
		func() error { return nil },
		func() error {
			return s.galleryRepo.CreateLike(ctx, &model.GalleryLike{
				UserID: userID,
				PostID: postID,
			})
		},
	)
	if err != nil {
		return err
	}

	s.syncPostCounts(ctx, postID)

	if post.UserID != userID {
		s.notifyProducer.Send(ctx, &kafka.NotifyEvent{
			ReceiverID: post.UserID,
			SenderID:   userID,
			Type:       consts.NotifyTypeGalleryLike,
			Title:      "帖子被点赞",
			Content:    post.Title,
			Link:       "/gallery/" + strconv.FormatUint(postID, 10),
		})
	}
	return nil
}

func (s *GalleryServiceImpl) UnlikePost(ctx context.Context, userID, postID uint64) error {
	err := revokeAction(
		func() error { return nil },
		func() (int64, error) { return s.galleryRepo.DeleteLike(ctx, userID, postID) },
	)
	if err != nil {
		return err
	}

	s.syncPostCounts(ctx, postID)
	return nil
}

func (s *GalleryServiceImpl) CreateComment(ctx context.Context, userID, postID uint64, commentDTO *dto.GalleryCommentCreateDTO) (uint64, error) {
	post, err := s.galleryRepo.GetPostById(ctx, postID)
	if err != nil {
		return 0, err
	}
	if post == nil {
		return 0, ErrPostNotFound
	}

	comment := &model.GalleryComment{
		PostID:  postID,
		UserID:  userID,
		Content: commentDTO.Content,
	}
	if err = s.galleryRepo.CreateComment(ctx, comment); err != nil {
		return 0, err
	}

	s.syncPostCounts(ctx, postID)

	if post.UserID != userID {
		s.notifyProducer.Send(ctx, &kafka.NotifyEvent{
			ReceiverID: post.UserID,
			SenderID:   userID,
			Type:       consts.NotifyTypeGalleryComment,
			Title:      "帖子有新评论",
			Content:    commentDTO.Content,
			Link:       "/gallery/" + strconv.FormatUint(postID, 10),
		})
	}
	return comment.ID, nil
}

func (s *GalleryServiceImpl) ListComments(ctx context.Context, postID uint64, page, pageSize int) (*dto.PageResult, error) {
	offset := (page - 1) * pageSize
	comments, total, err := s.galleryRepo.ListComments(ctx, postID, offset, pageSize)
	if err != nil {
		return nil, err
	}

	list := make([]*dto.GalleryCommentDTO, 0, len(comments))
	for _, c := range comments {
		list = append(list, &dto.GalleryCommentDTO{
			ID:        c.ID,
			PostID:    c.PostID,
			UserID:    c.UserID,
			Nickname:  c.User.UserDetail.Nickname,
			AvatarURL: minio.GetPublicURL(c.User.UserDetail.AvatarURL),
			Content:   c.Content,
			CreatedAt: c.CreatedAt,
		})
	}

	return &dto.PageResult{
		List:     list,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

func (s *GalleryServiceImpl) DeleteComment(ctx context.Context, userID, commentID uint64) error {
	comment, err := s.galleryRepo.GetCommentById(ctx, commentID)
	if err != nil {
		return err
	}
	if comment == nil {
		return ErrPostCommentNotFound
	}

	rows, err := s.galleryRepo.DeleteComment(ctx, commentID, userID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return UnauthorizedError
	}

	s.syncPostCounts(ctx, comment.PostID)
	return nil
}

// syncPostCounts 点赞/评论变动后回写帖子计数，失败只记录日志
func (s *GalleryServiceImpl) syncPostCounts(ctx context.Context, postID uint64) {
	likes, err := s.galleryRepo.CountLikes(ctx, postID)
	if err != nil {
		log.WarnContext(ctx, "count likes error", "postID", postID, "err", err)
		return
	}
	comments, err := s.galleryRepo.CountComments(ctx, postID)
	if err != nil {
		log.WarnContext(ctx, "count comments error", "postID", postID, "err", err)
		return
	}
	if err = s.galleryRepo.UpdatePostCounts(ctx, postID, likes, comments); err != nil {
		log.WarnContext(ctx, "update post counts error", "postID", postID, "err", err)
	}
}

func (s *GalleryServiceImpl) toPostDTO(ctx context.Context, post *model.GalleryPost, viewerID uint64) *dto.GalleryPostDTO {
	d := &dto.GalleryPostDTO{
		ID:            post.ID,
		UserID:        post.UserID,
		PainterID:     post.PainterID,
		Title:         post.Title,
		Content:       post.Content,
		Style:         post.Style,
		ImageURL:      minio.GetPublicURL(post.ImageURL),
		LikesCount:    int64(post.LikesCount),
		CommentsCount: int64(post.CommentsCount),
		CreatedAt:     post.CreatedAt,
	}
	if post.User.ID > 0 {
		d.Nickname = post.User.UserDetail.Nickname
		d.AvatarURL = minio.GetPublicURL(post.User.UserDetail.AvatarURL)
	}
	if viewerID > 0 {
		liked, err := s.galleryRepo.LikeExists(ctx, viewerID, post.ID)
		if err == nil {
			d.Liked = liked
		}
	}
	return d
}
