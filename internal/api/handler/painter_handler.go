package handler

import (
	"Atelier/internal/api/dto"
	"Atelier/internal/pkg/consts"
	"Atelier/internal/pkg/response"
	"Atelier/internal/pkg/util"
	"Atelier/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type PainterHandler struct {
	painterSvc service.PainterService
}

func NewPainterHandler(painterSvc service.PainterService) *PainterHandler {
	return &PainterHandler{painterSvc: painterSvc}
}

// Apply 画师入驻申请
func (s *PainterHandler) Apply(c *gin.Context) {
	userID := c.GetUint64("user_id")
	var applyDTO dto.PainterApplyDTO
	if err := c.ShouldBind(&applyDTO); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&applyDTO); err != nil {
		response.Error(c, err)
		return
	}
	if err := s.painterSvc.Apply(c.Request.Context(), userID, &applyDTO); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// GetDetail 查看画师主页
func (s *PainterHandler) GetDetail(c *gin.Context) {
	painterID, err := strconv.ParseUint(c.Param("painter_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	viewerID := c.GetUint64("user_id")
	isAdmin := hasRole(c, consts.RoleAdmin)

	painter, err := s.painterSvc.GetPainterDetail(c.Request.Context(), painterID, viewerID, isAdmin)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, painter)
}

// GetMine 画师查看本人档案（含审核状态与驳回原因）
func (s *PainterHandler) GetMine(c *gin.Context) {
	userID := c.GetUint64("user_id")
	painter, err := s.painterSvc.GetMyPainter(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, painter)
}

// GetDashboard 画师工作台统计
func (s *PainterHandler) GetDashboard(c *gin.Context) {
	userID := c.GetUint64("user_id")
	stats, err := s.painterSvc.GetDashboard(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, stats)
}

// UpdateProfile 画师更新档案
func (s *PainterHandler) UpdateProfile(c *gin.Context) {
	userID := c.GetUint64("user_id")
	var updateDTO dto.PainterUpdateDTO
	if err := c.ShouldBind(&updateDTO); err != nil {
		response.Error(c, err)
		return
	}
	if err := util.ValidateDTO(&updateDTO); err != nil {
		response.Error(c, err)
		return
	}
	if err := s.painterSvc.UpdateProfile(c.Request.Context(), userID, &updateDTO); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// ListPending 管理员查看待审核队列
func (s *PainterHandler) ListPending(c *gin.Context) {
	page, pageSize := parsePage(c)
	res, err := s.painterSvc.ListPending(c.Request.Context(), page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// Moderate 管理员审核
func (s *PainterHandler) Moderate(c *gin.Context) {
	painterID, err := strconv.ParseUint(c.Param("painter_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	var moderateDTO dto.PainterModerateDTO
	if err = c.ShouldBind(&moderateDTO); err != nil {
		response.Error(c, err)
		return
	}
	if err = s.painterSvc.Moderate(c.Request.Context(), painterID, &moderateDTO); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// Search 搜索画师
func (s *PainterHandler) Search(c *gin.Context) {
	var searchDTO dto.PainterSearchDTO
	if err := c.ShouldBindQuery(&searchDTO); err != nil {
		response.Error(c, err)
		return
	}
	res, err := s.painterSvc.Search(c.Request.Context(), &searchDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// AddPortfolioImage 追加作品集图片
func (s *PainterHandler) AddPortfolioImage(c *gin.Context) {
	userID := c.GetUint64("user_id")
	var imageDTO dto.PortfolioImageDTO
	if err := c.ShouldBind(&imageDTO); err != nil {
		response.Error(c, err)
		return
	}
	if imageDTO.URL == "" {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err := s.painterSvc.AddPortfolioImage(c.Request.Context(), userID, imageDTO.URL, imageDTO.Title); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// DeletePortfolioImage 删除作品集图片
func (s *PainterHandler) DeletePortfolioImage(c *gin.Context) {
	userID := c.GetUint64("user_id")
	imageID, err := strconv.ParseUint(c.Param("image_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err = s.painterSvc.DeletePortfolioImage(c.Request.Context(), userID, imageID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func hasRole(c *gin.Context, role string) bool {
	for _, r := range c.GetStringSlice("roles") {
		if r == role {
			return true
		}
	}
	return false
}

func parsePage(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 50 {
		pageSize = 20
	}
	return page, pageSize
}
