package consts

const (
	IMConversationKey = "im:conversation:"
	IMTypingKey       = "im:typing:"

	PainterRatingKey        = "painter:rating:"
	PainterFavoriteCountKey = "painter:favorite:count:"
	PainterViewCountKey     = "painter:view:count:"
	PainterRatingDirtyKey   = "painter:rating:dirty"

	UserSimpleInfoKey = "user:simple:"
)
