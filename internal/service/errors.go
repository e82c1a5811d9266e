package service

import (
	"errors"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	NotFound            = 404
	InternalServerError = 500
)

var (
	ErrParamInvalid            = errors.New("参数错误")
	ErrUserNotFound            = errors.New("用户不存在")
	ErrUserBan                 = errors.New("用户已被封禁")
	ErrUserExist               = errors.New("用户已存在")
	ErrUserUsernameExist       = errors.New("用户名已存在")
	ErrUserEmailExist          = errors.New("邮箱已注册")
	ErrPasswordIncorrect       = errors.New("密码错误")
	ErrMissingLoginCredentials = errors.New("缺少登录凭据")
	ErrFileNotSupported        = errors.New("不支持的文件类型")
	ErrPainterNotFound         = errors.New("画师不存在")
	ErrPainterExist            = errors.New("已提交过画师申请")
	ErrPainterNotApproved      = errors.New("画师未通过审核")
	ErrPainterNotPending       = errors.New("画师申请不在待审核状态")
	ErrReviewNotFound          = errors.New("评价不存在")
	ErrReviewSelf              = errors.New("不能评价自己")
	ErrFavoriteSelf            = errors.New("不能收藏自己")
	ErrPostNotFound            = errors.New("帖子不存在")
	ErrPostCommentNotFound     = errors.New("评论不存在")
	ErrActionDuplicate         = errors.New("重复操作")
	ErrNotificationNotFound    = errors.New("通知不存在")
	ErrTargetUserInvalid       = errors.New("目标用户无效")
	ErrConversationNotFound    = errors.New("会话不存在")
	ErrConversationSelf        = errors.New("不能与自己发起会话")
	ErrMessageEmpty            = errors.New("消息内容不能为空")
	UnauthorizedError          = errors.New("权限不足")
	UnExpectedError            = errors.New("系统异常，请稍后重试")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:            BadRequest,
	ErrUserNotFound:            NotFound,
	ErrUserBan:                 Unauthorized,
	ErrUserExist:               BadRequest,
	ErrUserUsernameExist:       BadRequest,
	ErrUserEmailExist:          BadRequest,
	ErrPasswordIncorrect:       Unauthorized,
	ErrMissingLoginCredentials: Unauthorized,
	ErrFileNotSupported:        BadRequest,
	ErrPainterNotFound:         NotFound,
	ErrPainterExist:            BadRequest,
	ErrPainterNotApproved:      BadRequest,
	ErrPainterNotPending:       BadRequest,
	ErrReviewNotFound:          NotFound,
	ErrReviewSelf:              BadRequest,
	ErrFavoriteSelf:            BadRequest,
	ErrPostNotFound:            NotFound,
	ErrPostCommentNotFound:     NotFound,
	ErrActionDuplicate:         BadRequest,
	ErrNotificationNotFound:    NotFound,
	ErrTargetUserInvalid:       BadRequest,
	ErrConversationNotFound:    NotFound,
	ErrConversationSelf:        BadRequest,
	ErrMessageEmpty:            BadRequest,
	UnauthorizedError:          Unauthorized,
	UnExpectedError:            InternalServerError,
}
