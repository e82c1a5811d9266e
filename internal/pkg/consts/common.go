package consts

const (
	MimePrefixImage = "image"
)

// 画师资料审核状态
const (
	PainterStatusPending  = "pending"
	PainterStatusApproved = "approved"
	PainterStatusRejected = "rejected"
)

// 站内通知类型
const (
	NotifyTypeMessage         int8 = 1
	NotifyTypeReview          int8 = 2
	NotifyTypeFavorite        int8 = 3
	NotifyTypePainterApproved int8 = 4
	NotifyTypePainterRejected int8 = 5
	NotifyTypeGalleryLike     int8 = 6
	NotifyTypeGalleryComment  int8 = 7
)

// 实时推送事件类型
const (
	EventMessageNew  = "MESSAGE_NEW"
	EventReadReceipt = "READ_RECEIPT"
	EventTyping      = "TYPING"
)

// 角色
const (
	RoleStudentID uint64 = 1
	RolePainterID uint64 = 2
	RoleAdminID   uint64 = 3

	RoleStudent = "student"
	RolePainter = "painter"
	RoleAdmin   = "admin"
)

const (
	DefaultAvatarURL = "default_avatar.png"
)
