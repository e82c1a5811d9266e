package dto

import "time"

// RegisterDTO 注册
type RegisterDTO struct {
	Username *string `json:"username" binding:"required" validate:"required,min=3,max=20"`
	Email    *string `json:"email" binding:"required" validate:"required,email"`
	Password *string `json:"password" binding:"required" validate:"required,min=6,max=20"`

	Nickname string  `json:"nickname" validate:"required,min=1,max=15"`
	Bio      *string `json:"bio,omitempty" validate:"omitempty,max=200"`
	Region   *string `json:"region,omitempty"`
}

// CredentialDTO 登录凭证
type CredentialDTO struct {
	Username *string `json:"username,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password" binding:"required"`
}

// UserDTO 用户
type UserDTO struct {
	UserID    *uint64    `json:"user_id,omitempty"`
	Username  *string    `json:"username,omitempty"`
	Email     *string    `json:"email,omitempty"`
	Nickname  *string    `json:"nickname,omitempty"`
	AvatarURL *string    `json:"avatar_url,omitempty"`
	Bio       *string    `json:"bio,omitempty" validate:"omitempty,max=200"`
	Region    *string    `json:"region,omitempty"`
	Roles     []string   `json:"roles,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// ChangePasswordDTO 修改密码
type ChangePasswordDTO struct {
	OldPassword *string `json:"old_password" binding:"required" validate:"min=6,max=20"`
	NewPassword *string `json:"new_password" binding:"required" validate:"min=6,max=20"`
}

// TokenDTO 登录结果
type TokenDTO struct {
	Token string   `json:"token"`
	User  *UserDTO `json:"user"`
}
