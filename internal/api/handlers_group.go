package api

import "Atelier/internal/api/handler"

// HandlersGroup 封装了所有已初始化的 Handler 实例
type HandlersGroup struct {
	UserHandler         *handler.UserHandler
	PainterHandler      *handler.PainterHandler
	ReviewHandler       *handler.ReviewHandler
	FavoriteHandler     *handler.FavoriteHandler
	GalleryHandler      *handler.GalleryHandler
	NotificationHandler *handler.NotificationHandler
	IMHandler           *handler.IMHandler
	WSHandler           *handler.WsHandler
	MediaHandler        *handler.MediaHandler
}
