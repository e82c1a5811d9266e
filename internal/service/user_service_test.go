package service

import (
	"Atelier/internal/model"
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uint64]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uint64]*model.User{}}
}

func (f *fakeUserRepo) GetUserById(_ context.Context, id uint64) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.users[id], nil
}

func (f *fakeUserRepo) GetUserByIds(context.Context, []uint64) ([]*model.User, error) {
	return nil, nil
}

func (f *fakeUserRepo) GetUserByUsername(_ context.Context, username string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username != nil && *u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email != nil && *u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetUserSimpleInfoByIds(context.Context, []uint64) ([]*model.UserDetail, error) {
	return nil, nil
}

func (f *fakeUserRepo) CreateUser(_ context.Context, user *model.User, _ *model.UserDetail, _ []*model.UserRole) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user.ID = uint64(len(f.users) + 1)
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) UpdateUser(context.Context, *model.User) error { return nil }

func (f *fakeUserRepo) UpdateUserIsBan(_ context.Context, id uint64, isBan bool) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return 0, nil
	}
	user.IsBan = isBan
	return 1, nil
}

func (f *fakeUserRepo) UpdateUserDetail(context.Context, *model.UserDetail) error { return nil }

func TestBanUser(t *testing.T) {
	repo := newFakeUserRepo()
	repo.users[1] = &model.User{ID: 1}
	repo.users[2] = &model.User{ID: 2}
	svc := NewUserService(repo, newFakeRoleRepo())

	t.Run("不能封禁自己", func(t *testing.T) {
		err := svc.BanUser(context.Background(), 1, 1)
		assert.ErrorIs(t, err, ErrTargetUserInvalid)
		assert.False(t, repo.users[1].IsBan)
	})

	t.Run("目标不存在", func(t *testing.T) {
		err := svc.BanUser(context.Background(), 1, 99)
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("封禁后解封", func(t *testing.T) {
		require.NoError(t, svc.BanUser(context.Background(), 1, 2))
		assert.True(t, repo.users[2].IsBan)

		require.NoError(t, svc.UnBanUser(context.Background(), 2))
		assert.False(t, repo.users[2].IsBan)
	})
}
