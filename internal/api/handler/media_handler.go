package handler

import (
	"Atelier/internal/pkg/consts"
	"Atelier/internal/pkg/minio"
	"Atelier/internal/pkg/response"
	"Atelier/internal/pkg/util"
	"Atelier/internal/service"
	log "log/slog"
	"path"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type MediaHandler struct {
	userSvc service.UserService
}

func NewMediaHandler(userSvc service.UserService) *MediaHandler {
	return &MediaHandler{userSvc: userSvc}
}

// Upload 上传图片，返回对象键与公开访问地址
func (s *MediaHandler) Upload(c *gin.Context) {
	fileKey, contentType, size, original, err := s.uploadFile(c, true)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, map[string]interface{}{
		"url":        fileKey,
		"public_url": minio.GetPublicURL(fileKey),
		"mime":       contentType,
		"size":       size,
		"original":   original,
	})
}

// UploadAttachment 上传消息附件，不限定图片类型
func (s *MediaHandler) UploadAttachment(c *gin.Context) {
	fileKey, contentType, size, original, err := s.uploadFile(c, false)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, map[string]interface{}{
		"url":        fileKey,
		"public_url": minio.GetPublicURL(fileKey),
		"mime":       contentType,
		"size":       size,
		"original":   original,
	})
}

// UploadAvatar 上传并替换当前用户头像
func (s *MediaHandler) UploadAvatar(c *gin.Context) {
	userID := c.GetUint64("user_id")

	fileKey, _, _, _, err := s.uploadFile(c, true)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err = s.userSvc.UpdateAvatar(c.Request.Context(), userID, fileKey); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, map[string]string{
		"avatar_url": minio.GetPublicURL(fileKey),
	})
}

// uploadFile 校验 MIME 后上传到对象存储
// imageOnly 限定头像与画廊图片；消息附件放开为任意类型
func (s *MediaHandler) uploadFile(c *gin.Context, imageOnly bool) (fileKey, contentType string, size int64, original string, err error) {
	file, err := c.FormFile("file")
	if err != nil {
		return "", "", 0, "", service.ErrParamInvalid
	}

	reader, err := file.Open()
	if err != nil {
		return "", "", 0, "", service.ErrParamInvalid
	}
	defer func() { _ = reader.Close() }()

	contentType, err = util.GetSafeContentType(reader)
	if err != nil {
		return "", "", 0, "", service.ErrParamInvalid
	}
	if imageOnly && !strings.HasPrefix(contentType, consts.MimePrefixImage) {
		return "", "", 0, "", service.ErrFileNotSupported
	}

	ext := path.Ext(file.Filename)
	objectName := time.Now().Format("2006/01/02/") + uuid.NewString() + ext

	fileKey, err = minio.UploadFile(c.Request.Context(), objectName, reader, file.Size, contentType)
	if err != nil {
		log.ErrorContext(c.Request.Context(), "MinIO upload failed", "err", err)
		return "", "", 0, "", service.UnExpectedError
	}

	log.InfoContext(c.Request.Context(), "media upload success", "fileKey", fileKey, "type", contentType)
	return fileKey, contentType, file.Size, file.Filename, nil
}
