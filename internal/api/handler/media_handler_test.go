package handler

import (
	"Atelier/internal/api/dto"
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postMultipart(t *testing.T, handlerFunc gin.HandlerFunc, filename string, content []byte) *dto.Response {
	t.Helper()
	gin.SetMode(gin.TestMode)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	router := gin.New()
	router.POST("/upload", handlerFunc)

	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	resp := &dto.Response{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), resp))
	return resp
}

func TestUploadRejectsNonImage(t *testing.T) {
	h := NewMediaHandler(nil)

	resp := postMultipart(t, h.Upload, "notes.txt", []byte("这不是一张图片"))
	assert.Equal(t, 400, resp.Code)
	assert.Equal(t, "不支持的文件类型", resp.Message)
}

func TestUploadAttachmentAcceptsNonImage(t *testing.T) {
	h := NewMediaHandler(nil)

	// 附件放开类型校验，文本文件走到对象存储这一步
	// 测试环境没有对象存储客户端，失败归一为系统异常而不是类型错误
	resp := postMultipart(t, h.UploadAttachment, "notes.txt", []byte("聊天附件内容"))
	assert.NotEqual(t, 400, resp.Code)
	assert.NotEqual(t, "不支持的文件类型", resp.Message)
	assert.Equal(t, 500, resp.Code)
}
