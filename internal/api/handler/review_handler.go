package handler

import (
	"Atelier/internal/api/dto"
	"Atelier/internal/pkg/response"
	"Atelier/internal/pkg/util"
	"Atelier/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	reviewSvc service.ReviewService
}

func NewReviewHandler(reviewSvc service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewSvc: reviewSvc}
}

// CreateReview 对画师发表评价
func (s *ReviewHandler) CreateReview(c *gin.Context) {
	userID := c.GetUint64("user_id")
	painterID, err := strconv.ParseUint(c.Param("painter_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	var reviewDTO dto.ReviewCreateDTO
	if err = c.ShouldBind(&reviewDTO); err != nil {
		response.Error(c, err)
		return
	}
	if err = util.ValidateDTO(&reviewDTO); err != nil {
		response.Error(c, err)
		return
	}
	if err = s.reviewSvc.CreateReview(c.Request.Context(), userID, painterID, &reviewDTO); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// UpdateReview 修改本人评价
func (s *ReviewHandler) UpdateReview(c *gin.Context) {
	userID := c.GetUint64("user_id")
	painterID, err := strconv.ParseUint(c.Param("painter_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	var reviewDTO dto.ReviewCreateDTO
	if err = c.ShouldBind(&reviewDTO); err != nil {
		response.Error(c, err)
		return
	}
	if err = util.ValidateDTO(&reviewDTO); err != nil {
		response.Error(c, err)
		return
	}
	if err = s.reviewSvc.UpdateReview(c.Request.Context(), userID, painterID, &reviewDTO); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// DeleteReview 删除本人评价
func (s *ReviewHandler) DeleteReview(c *gin.Context) {
	userID := c.GetUint64("user_id")
	painterID, err := strconv.ParseUint(c.Param("painter_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err = s.reviewSvc.DeleteReview(c.Request.Context(), userID, painterID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// ListReviews 查看画师收到的评价
func (s *ReviewHandler) ListReviews(c *gin.Context) {
	painterID, err := strconv.ParseUint(c.Param("painter_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	page, pageSize := parsePage(c)
	res, err := s.reviewSvc.ListByPainter(c.Request.Context(), painterID, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}
