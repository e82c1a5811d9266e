package service

import (
	"Atelier/internal/api/dto"
	"Atelier/internal/model"
	"Atelier/internal/pkg/consts"
	"Atelier/internal/pkg/minio"
	"Atelier/internal/pkg/redis"
	"Atelier/internal/pkg/security"
	"Atelier/internal/repository"
	"context"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/jinzhu/copier"
)

type UserService interface {
	Register(ctx context.Context, dto *dto.RegisterDTO) error
	Login(ctx context.Context, dto *dto.CredentialDTO) (*dto.TokenDTO, error)
	Logout(ctx context.Context, token string) error
	GetUserInfo(ctx context.Context, id uint64) (*dto.UserDTO, error)
	GetUserSimpleInfoByIds(ctx context.Context, ids []uint64) ([]*dto.UserDTO, error)
	UpdateUserInfo(ctx context.Context, id uint64, dto *dto.UserDTO) error
	UpdatePasswordFromOld(ctx context.Context, id uint64, dto *dto.ChangePasswordDTO) error
	UpdateAvatar(ctx context.Context, id uint64, objectName string) error
	BanUser(ctx context.Context, operatorID, id uint64) error
	UnBanUser(ctx context.Context, id uint64) error
}

type UserServiceImpl struct {
	userRepo repository.UserRepo
	roleRepo repository.RoleRepo
}

func NewUserService(userRepo repository.UserRepo, roleRepo repository.RoleRepo) UserService {
	return &UserServiceImpl{
		userRepo: userRepo,
		roleRepo: roleRepo,
	}
}

func (s *UserServiceImpl) Register(ctx context.Context, regDTO *dto.RegisterDTO) error {
	if regDTO.Username == nil || regDTO.Email == nil || regDTO.Password == nil {
		return ErrParamInvalid
	}

	findUser, err := s.userRepo.GetUserByUsername(ctx, *regDTO.Username)
	if err != nil {
		return err
	}
	if findUser != nil {
		return ErrUserUsernameExist
	}

	findUser, err = s.userRepo.GetUserByEmail(ctx, *regDTO.Email)
	if err != nil {
		return err
	}
	if findUser != nil {
		return ErrUserEmailExist
	}

	user := &model.User{}
	if err = copier.Copy(user, &regDTO); err != nil {
		return err
	}

	passwordHash, err := security.HashPassword(*regDTO.Password)
	if err != nil {
		return err
	}
	user.Password = &passwordHash

	detail := &model.UserDetail{}
	if err = copier.Copy(detail, &regDTO); err != nil {
		return err
	}
	if detail.AvatarURL == "" {
		detail.AvatarURL = consts.DefaultAvatarURL
	}

	roles := []*model.UserRole{
		{RoleID: consts.RoleStudentID},
	}

	if err = s.userRepo.CreateUser(ctx, user, detail, roles); err != nil {
		if isDuplicateError(err) {
			return ErrUserExist
		}
		return err
	}

	return nil
}

func (s *UserServiceImpl) Login(ctx context.Context, credDTO *dto.CredentialDTO) (*dto.TokenDTO, error) {
	user, err := s.findUserByLoginCredentials(ctx, credDTO)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if user.IsBan {
		return nil, ErrUserBan
	}

	if credDTO.Password == nil || user.Password == nil {
		return nil, ErrPasswordIncorrect
	}
	if err = security.CheckPasswordHash(*credDTO.Password, *user.Password); err != nil {
		return nil, ErrPasswordIncorrect
	}

	roleNames, err := s.getRoleNamesForUser(ctx, user)
	if err != nil {
		return nil, err
	}

	token, err := security.GenerateToken(user.ID, roleNames)
	if err != nil {
		return nil, err
	}

	userDTO := s.toUserDTO(user, roleNames)
	return &dto.TokenDTO{Token: token, User: userDTO}, nil
}

// Logout 将令牌签名写入黑名单直至自然过期
func (s *UserServiceImpl) Logout(ctx context.Context, token string) error {
	signature, err := security.ExtractSignature(token)
	if err != nil {
		return err
	}
	return redis.SetWithExpiration(ctx, signature, true, security.JWTExpirationTime)
}

func (s *UserServiceImpl) GetUserInfo(ctx context.Context, id uint64) (*dto.UserDTO, error) {
	user, err := s.userRepo.GetUserById(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	roleNames, err := s.getRoleNamesForUser(ctx, user)
	if err != nil {
		return nil, err
	}

	return s.toUserDTO(user, roleNames), nil
}

func (s *UserServiceImpl) GetUserSimpleInfoByIds(ctx context.Context, ids []uint64) ([]*dto.UserDTO, error) {
	newIds := make([]uint64, 0, len(ids))
	mp := make(map[uint64]*dto.UserDTO)
	for _, id := range ids {
		value, err := redis.GetValue(ctx, consts.UserSimpleInfoKey+strconv.FormatUint(id, 10))
		if err != nil {
			return nil, err
		}
		if value != "" {
			var userDTO *dto.UserDTO
			if err = json.Unmarshal([]byte(value), &userDTO); err != nil {
				newIds = append(newIds, id)
			} else {
				mp[id] = userDTO
			}
		} else {
			newIds = append(newIds, id)
		}
	}

	if len(newIds) > 0 {
		userDetails, err := s.userRepo.GetUserSimpleInfoByIds(ctx, newIds)
		if err != nil {
			return nil, err
		}
		for _, userDetail := range userDetails {
			userDTO := &dto.UserDTO{}
			if err = copier.Copy(userDTO, userDetail); err != nil {
				return nil, err
			}
			url := minio.GetPublicURL(userDetail.AvatarURL)
			userDTO.AvatarURL = &url
			mp[userDetail.UserID] = userDTO

			jsonStr, err := json.Marshal(userDTO)
			if err != nil {
				return nil, err
			}
			key := consts.UserSimpleInfoKey + strconv.FormatUint(userDetail.UserID, 10)
			if err = redis.SetWithExpiration(ctx, key, string(jsonStr), time.Hour*1); err != nil {
				return nil, err
			}
		}
	}

	userDTOList := make([]*dto.UserDTO, 0, len(ids))
	for _, id := range ids {
		if mp[id] == nil {
			continue
		}
		userDTOList = append(userDTOList, mp[id])
	}
	return userDTOList, nil
}

func (s *UserServiceImpl) UpdateUserInfo(ctx context.Context, id uint64, userDTO *dto.UserDTO) error {
	user, err := s.userRepo.GetUserById(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	detail := user.UserDetail
	if userDTO.Nickname != nil {
		detail.Nickname = *userDTO.Nickname
	}
	if userDTO.Bio != nil {
		detail.Bio = userDTO.Bio
	}
	if userDTO.Region != nil {
		detail.Region = userDTO.Region
	}

	if err = s.userRepo.UpdateUserDetail(ctx, &detail); err != nil {
		return err
	}

	_ = redis.DeleteKey(ctx, consts.UserSimpleInfoKey+strconv.FormatUint(id, 10))
	return nil
}

func (s *UserServiceImpl) UpdatePasswordFromOld(ctx context.Context, id uint64, pwdDTO *dto.ChangePasswordDTO) error {
	user, err := s.userRepo.GetUserById(ctx, id)
	if err != nil {
		return err
	}
	if user == nil || user.Password == nil {
		return ErrUserNotFound
	}

	if err = security.CheckPasswordHash(*pwdDTO.OldPassword, *user.Password); err != nil {
		return ErrPasswordIncorrect
	}

	passwordHash, err := security.HashPassword(*pwdDTO.NewPassword)
	if err != nil {
		return err
	}
	user.Password = &passwordHash
	return s.userRepo.UpdateUser(ctx, user)
}

func (s *UserServiceImpl) UpdateAvatar(ctx context.Context, id uint64, objectName string) error {
	user, err := s.userRepo.GetUserById(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	detail := user.UserDetail
	detail.AvatarURL = objectName
	if err = s.userRepo.UpdateUserDetail(ctx, &detail); err != nil {
		return err
	}

	_ = redis.DeleteKey(ctx, consts.UserSimpleInfoKey+strconv.FormatUint(id, 10))
	return nil
}

// BanUser 封禁用户，管理员不能封禁自己
func (s *UserServiceImpl) BanUser(ctx context.Context, operatorID, id uint64) error {
	if operatorID == id {
		return ErrTargetUserInvalid
	}
	rows, err := s.userRepo.UpdateUserIsBan(ctx, id, true)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *UserServiceImpl) UnBanUser(ctx context.Context, id uint64) error {
	rows, err := s.userRepo.UpdateUserIsBan(ctx, id, false)
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *UserServiceImpl) findUserByLoginCredentials(ctx context.Context, credDTO *dto.CredentialDTO) (*model.User, error) {
	if credDTO.Username != nil {
		return s.userRepo.GetUserByUsername(ctx, *credDTO.Username)
	}
	if credDTO.Email != nil {
		return s.userRepo.GetUserByEmail(ctx, *credDTO.Email)
	}
	return nil, ErrMissingLoginCredentials
}

func (s *UserServiceImpl) getRoleNamesForUser(ctx context.Context, user *model.User) ([]string, error) {
	roles, err := s.roleRepo.GetUserRoles(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	roleNames := make([]string, 0, len(roles))
	for _, r := range roles {
		roleNames = append(roleNames, r.Name)
	}
	return roleNames, nil
}

func (s *UserServiceImpl) toUserDTO(user *model.User, roleNames []string) *dto.UserDTO {
	url := minio.GetPublicURL(user.UserDetail.AvatarURL)
	return &dto.UserDTO{
		UserID:    &user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Nickname:  &user.UserDetail.Nickname,
		AvatarURL: &url,
		Bio:       user.UserDetail.Bio,
		Region:    user.UserDetail.Region,
		Roles:     roleNames,
		CreatedAt: &user.CreatedAt,
	}
}
