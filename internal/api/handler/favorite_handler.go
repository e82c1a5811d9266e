package handler

import (
	"Atelier/internal/pkg/response"
	"Atelier/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type FavoriteHandler struct {
	favoriteSvc service.FavoriteService
}

func NewFavoriteHandler(favoriteSvc service.FavoriteService) *FavoriteHandler {
	return &FavoriteHandler{favoriteSvc: favoriteSvc}
}

// AddFavorite 收藏画师
func (s *FavoriteHandler) AddFavorite(c *gin.Context) {
	userID := c.GetUint64("user_id")
	painterID, err := strconv.ParseUint(c.Param("painter_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err = s.favoriteSvc.AddFavorite(c.Request.Context(), userID, painterID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// RemoveFavorite 取消收藏
func (s *FavoriteHandler) RemoveFavorite(c *gin.Context) {
	userID := c.GetUint64("user_id")
	painterID, err := strconv.ParseUint(c.Param("painter_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err = s.favoriteSvc.RemoveFavorite(c.Request.Context(), userID, painterID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// IsFavorite 查询是否已收藏
func (s *FavoriteHandler) IsFavorite(c *gin.Context) {
	userID := c.GetUint64("user_id")
	painterID, err := strconv.ParseUint(c.Param("painter_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	exists, err := s.favoriteSvc.IsFavorite(c.Request.Context(), userID, painterID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, map[string]bool{"favorited": exists})
}

// ListFavorites 查看本人收藏列表
func (s *FavoriteHandler) ListFavorites(c *gin.Context) {
	userID := c.GetUint64("user_id")
	page, pageSize := parsePage(c)
	res, err := s.favoriteSvc.ListFavorites(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}
