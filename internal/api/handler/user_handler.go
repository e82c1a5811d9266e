package handler

import (
	"Atelier/internal/api/dto"
	"Atelier/internal/pkg/response"
	"Atelier/internal/pkg/util"
	"Atelier/internal/service"
	log "log/slog"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userSvc    service.UserService
	painterSvc service.PainterService
}

func NewUserHandler(userSvc service.UserService, painterSvc service.PainterService) *UserHandler {
	return &UserHandler{userSvc: userSvc, painterSvc: painterSvc}
}

func (s *UserHandler) Register(c *gin.Context) {
	var registerDTO dto.RegisterDTO
	err := c.ShouldBind(&registerDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err = util.ValidateDTO(&registerDTO); err != nil {
		response.Error(c, err)
		return
	}
	err = s.userSvc.Register(c.Request.Context(), &registerDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *UserHandler) Login(c *gin.Context) {
	var loginDTO dto.CredentialDTO
	err := c.ShouldBind(&loginDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	if loginDTO.Username == nil && loginDTO.Email == nil {
		response.Fail(c, response.BadRequest, service.ErrMissingLoginCredentials.Error())
		return
	}
	token, err := s.userSvc.Login(c.Request.Context(), &loginDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, token)
}

func (s *UserHandler) Logout(c *gin.Context) {
	token := c.Request.Header.Get("Authorization")
	token = strings.Replace(token, "Bearer ", "", 1)
	err := s.userSvc.Logout(c.Request.Context(), token)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *UserHandler) GetUserInfo(c *gin.Context) {
	userID := c.GetUint64("user_id")
	userDTO, err := s.userSvc.GetUserInfo(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, userDTO)
}

func (s *UserHandler) GetUserSimpleInfoById(c *gin.Context) {
	query := c.Param("user_id")
	userID, err := strconv.ParseUint(query, 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	users, err := s.userSvc.GetUserSimpleInfoByIds(c.Request.Context(), []uint64{userID})
	if err != nil {
		response.Error(c, err)
		return
	}
	if len(users) == 0 {
		response.Fail(c, response.NotFound, service.ErrUserNotFound.Error())
		return
	}
	response.Success(c, users[0])
}

func (s *UserHandler) UpdateUserInfo(c *gin.Context) {
	userID := c.GetUint64("user_id")
	var userDTO dto.UserDTO
	err := c.ShouldBind(&userDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	// 这些字段不允许通过本接口修改
	userDTO.UserID = nil
	userDTO.Username = nil
	userDTO.Email = nil
	userDTO.AvatarURL = nil
	userDTO.CreatedAt = nil
	err = s.userSvc.UpdateUserInfo(c.Request.Context(), userID, &userDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *UserHandler) ChangePassword(c *gin.Context) {
	userID := c.GetUint64("user_id")
	var changePasswordDTO dto.ChangePasswordDTO
	err := c.ShouldBind(&changePasswordDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	err = util.ValidateDTO(&changePasswordDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	err = s.userSvc.UpdatePasswordFromOld(c.Request.Context(), userID, &changePasswordDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// BanUser 封禁用户，其画师档案同步移出搜索索引
func (s *UserHandler) BanUser(c *gin.Context) {
	targetID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	err = s.userSvc.BanUser(c.Request.Context(), c.GetUint64("user_id"), targetID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err = s.painterSvc.DeindexByUser(c.Request.Context(), targetID); err != nil {
		log.WarnContext(c.Request.Context(), "deindex banned painter error", "uid", targetID, "err", err)
	}
	response.Success(c, nil)
}

func (s *UserHandler) UnbanUser(c *gin.Context) {
	targetID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	err = s.userSvc.UnBanUser(c.Request.Context(), targetID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err = s.painterSvc.ReindexByUser(c.Request.Context(), targetID); err != nil {
		log.WarnContext(c.Request.Context(), "reindex unbanned painter error", "uid", targetID, "err", err)
	}
	response.Success(c, nil)
}
