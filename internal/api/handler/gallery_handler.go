package handler

import (
	"Atelier/internal/api/dto"
	"Atelier/internal/pkg/response"
	"Atelier/internal/pkg/util"
	"Atelier/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type GalleryHandler struct {
	gallerySvc service.GalleryService
}

func NewGalleryHandler(gallerySvc service.GalleryService) *GalleryHandler {
	return &GalleryHandler{gallerySvc: gallerySvc}
}

// CreatePost 发布画廊动态
func (s *GalleryHandler) CreatePost(c *gin.Context) {
	userID := c.GetUint64("user_id")
	var createDTO dto.GalleryPostCreateDTO
	if err := c.ShouldBind(&createDTO); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&createDTO); err != nil {
		response.Error(c, err)
		return
	}
	id, err := s.gallerySvc.CreatePost(c.Request.Context(), userID, &createDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, map[string]uint64{"post_id": id})
}

// GetPost 查看单条动态
func (s *GalleryHandler) GetPost(c *gin.Context) {
	postID, err := strconv.ParseUint(c.Param("post_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	viewerID := c.GetUint64("user_id")
	post, err := s.gallerySvc.GetPost(c.Request.Context(), postID, viewerID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, post)
}

// ListPosts 动态流，支持按风格过滤
func (s *GalleryHandler) ListPosts(c *gin.Context) {
	viewerID := c.GetUint64("user_id")
	style := c.Query("style")
	page, pageSize := parsePage(c)
	res, err := s.gallerySvc.ListPosts(c.Request.Context(), viewerID, style, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// ListPostsByUser 某用户的动态列表
func (s *GalleryHandler) ListPostsByUser(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	page, pageSize := parsePage(c)
	res, err := s.gallerySvc.ListPostsByUser(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// DeletePost 删除本人动态
func (s *GalleryHandler) DeletePost(c *gin.Context) {
	userID := c.GetUint64("user_id")
	postID, err := strconv.ParseUint(c.Param("post_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err = s.gallerySvc.DeletePost(c.Request.Context(), userID, postID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// LikePost 点赞
func (s *GalleryHandler) LikePost(c *gin.Context) {
	userID := c.GetUint64("user_id")
	postID, err := strconv.ParseUint(c.Param("post_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err = s.gallerySvc.LikePost(c.Request.Context(), userID, postID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// UnlikePost 取消点赞
func (s *GalleryHandler) UnlikePost(c *gin.Context) {
	userID := c.GetUint64("user_id")
	postID, err := strconv.ParseUint(c.Param("post_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err = s.gallerySvc.UnlikePost(c.Request.Context(), userID, postID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// CreateComment 发表评论
func (s *GalleryHandler) CreateComment(c *gin.Context) {
	userID := c.GetUint64("user_id")
	postID, err := strconv.ParseUint(c.Param("post_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	var commentDTO dto.GalleryCommentCreateDTO
	if err = c.ShouldBind(&commentDTO); err != nil {
		response.Error(c, err)
		return
	}
	if err = util.ValidateDTO(&commentDTO); err != nil {
		response.Error(c, err)
		return
	}
	id, err := s.gallerySvc.CreateComment(c.Request.Context(), userID, postID, &commentDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, map[string]uint64{"comment_id": id})
}

// ListComments 评论列表
func (s *GalleryHandler) ListComments(c *gin.Context) {
	postID, err := strconv.ParseUint(c.Param("post_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	page, pageSize := parsePage(c)
	res, err := s.gallerySvc.ListComments(c.Request.Context(), postID, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// DeleteComment 删除本人评论
func (s *GalleryHandler) DeleteComment(c *gin.Context) {
	userID := c.GetUint64("user_id")
	commentID, err := strconv.ParseUint(c.Param("comment_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err = s.gallerySvc.DeleteComment(c.Request.Context(), userID, commentID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
