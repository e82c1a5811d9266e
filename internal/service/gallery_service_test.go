package service

import (
	"Atelier/internal/api/dto"
	"Atelier/internal/model"
	"context"
	"sync"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGalleryRepo struct {
	mu       sync.Mutex
	posts    map[uint64]*model.GalleryPost
	likes    map[[2]uint64]bool
	comments map[uint64]*model.GalleryComment
	seq      uint64
}

func newFakeGalleryRepo() *fakeGalleryRepo {
	return &fakeGalleryRepo{
		posts:    map[uint64]*model.GalleryPost{},
		likes:    map[[2]uint64]bool{},
		comments: map[uint64]*model.GalleryComment{},
	}
}

func (f *fakeGalleryRepo) CreatePost(_ context.Context, post *model.GalleryPost) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	post.ID = f.seq
	f.posts[post.ID] = post
	return nil
}

func (f *fakeGalleryRepo) GetPostById(_ context.Context, id uint64) (*model.GalleryPost, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	post, ok := f.posts[id]
	if !ok || post.IsDeleted {
		return nil, nil
	}
	return post, nil
}

func (f *fakeGalleryRepo) ListPosts(_ context.Context, style string, _, _ int) ([]*model.GalleryPost, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var res []*model.GalleryPost
	for _, p := range f.posts {
		if p.IsDeleted {
			continue
		}
		if style != "" && p.Style != style {
			continue
		}
		res = append(res, p)
	}
	return res, int64(len(res)), nil
}

func (f *fakeGalleryRepo) ListPostsByUser(_ context.Context, userID uint64, _, _ int) ([]*model.GalleryPost, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var res []*model.GalleryPost
	for _, p := range f.posts {
		if !p.IsDeleted && p.UserID == userID {
			res = append(res, p)
		}
	}
	return res, int64(len(res)), nil
}

func (f *fakeGalleryRepo) DeletePost(_ context.Context, id, userID uint64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	post, ok := f.posts[id]
	if !ok || post.IsDeleted || post.UserID != userID {
		return 0, nil
	}
	post.IsDeleted = true
	return 1, nil
}

func (f *fakeGalleryRepo) UpdatePostCounts(_ context.Context, id uint64, likes, comments int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if post, ok := f.posts[id]; ok {
		post.LikesCount = int(likes)
		post.CommentsCount = int(comments)
	}
	return nil
}

func (f *fakeGalleryRepo) CreateLike(_ context.Context, like *model.GalleryLike) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := [2]uint64{like.UserID, like.PostID}
	if f.likes[key] {
		return &mysql.MySQLError{Number: 1062}
	}
	f.likes[key] = true
	return nil
}

func (f *fakeGalleryRepo) LikeExists(_ context.Context, userID, postID uint64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.likes[[2]uint64{userID, postID}], nil
}

func (f *fakeGalleryRepo) DeleteLike(_ context.Context, userID, postID uint64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := [2]uint64{userID, postID}
	if !f.likes[key] {
		return 0, nil
	}
	delete(f.likes, key)
	return 1, nil
}

func (f *fakeGalleryRepo) CountLikes(_ context.Context, postID uint64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for key := range f.likes {
		if key[1] == postID {
			n++
		}
	}
	return n, nil
}

func (f *fakeGalleryRepo) CreateComment(_ context.Context, comment *model.GalleryComment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	comment.ID = f.seq
	f.comments[comment.ID] = comment
	return nil
}

func (f *fakeGalleryRepo) GetCommentById(_ context.Context, id uint64) (*model.GalleryComment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	comment, ok := f.comments[id]
	if !ok || comment.IsDeleted {
		return nil, nil
	}
	return comment, nil
}

func (f *fakeGalleryRepo) ListComments(_ context.Context, postID uint64, _, _ int) ([]*model.GalleryComment, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var res []*model.GalleryComment
	for _, c := range f.comments {
		if !c.IsDeleted && c.PostID == postID {
			res = append(res, c)
		}
	}
	return res, int64(len(res)), nil
}

func (f *fakeGalleryRepo) DeleteComment(_ context.Context, id, userID uint64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	comment, ok := f.comments[id]
	if !ok || comment.IsDeleted || comment.UserID != userID {
		return 0, nil
	}
	comment.IsDeleted = true
	return 1, nil
}

func (f *fakeGalleryRepo) CountComments(_ context.Context, postID uint64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, c := range f.comments {
		if !c.IsDeleted && c.PostID == postID {
			n++
		}
	}
	return n, nil
}

type galleryFixture struct {
	repo     *fakeGalleryRepo
	producer *fakeNotifyProducer
	svc      GalleryService
}

func newGalleryFixture() *galleryFixture {
	f := &galleryFixture{
		repo:     newFakeGalleryRepo(),
		producer: &fakeNotifyProducer{},
	}
	f.svc = NewGalleryService(f.repo, f.producer)
	return f
}

func TestCreatePostKeepsStyleAndPainter(t *testing.T) {
	f := newGalleryFixture()
	painterID := uint64(3)

	id, err := f.svc.CreatePost(context.Background(), 20, &dto.GalleryPostCreateDTO{
		Title:     "约稿成品",
		Content:   "感谢老师",
		Style:     "水彩",
		PainterID: &painterID,
		ImageURL:  "2026/02/01/a.png",
	})
	require.NoError(t, err)

	post := f.repo.posts[id]
	require.NotNil(t, post)
	assert.Equal(t, "水彩", post.Style)
	require.NotNil(t, post.PainterID)
	assert.Equal(t, painterID, *post.PainterID)
}

func TestListPostsFilterByStyle(t *testing.T) {
	f := newGalleryFixture()
	_, err := f.svc.CreatePost(context.Background(), 20, &dto.GalleryPostCreateDTO{Style: "水彩", ImageURL: "a.png"})
	require.NoError(t, err)
	_, err = f.svc.CreatePost(context.Background(), 20, &dto.GalleryPostCreateDTO{Style: "厚涂", ImageURL: "b.png"})
	require.NoError(t, err)

	res, err := f.svc.ListPosts(context.Background(), 0, "水彩", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Total)

	list, ok := res.List.([]*dto.GalleryPostDTO)
	require.True(t, ok)
	require.Len(t, list, 1)
	assert.Equal(t, "水彩", list[0].Style)

	// 不带风格返回全部
	res, err = f.svc.ListPosts(context.Background(), 0, "", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Total)
}

func TestLikePostDuplicate(t *testing.T) {
	f := newGalleryFixture()
	id, err := f.svc.CreatePost(context.Background(), 20, &dto.GalleryPostCreateDTO{ImageURL: "a.png"})
	require.NoError(t, err)

	require.NoError(t, f.svc.LikePost(context.Background(), 21, id))
	assert.Equal(t, 1, f.repo.posts[id].LikesCount)

	err = f.svc.LikePost(context.Background(), 21, id)
	assert.ErrorIs(t, err, ErrActionDuplicate)

	// 取消后可再次点赞，重复取消报重复操作
	require.NoError(t, f.svc.UnlikePost(context.Background(), 21, id))
	assert.Equal(t, 0, f.repo.posts[id].LikesCount)
	err = f.svc.UnlikePost(context.Background(), 21, id)
	assert.ErrorIs(t, err, ErrActionDuplicate)
}
