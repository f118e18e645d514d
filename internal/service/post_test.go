package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"studylog/internal/models"
)

type fakePostRepo struct {
	posts map[string]*models.Post
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: make(map[string]*models.Post)}
}

func (f *fakePostRepo) Create(p *models.Post) error {
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	cp := *p
	f.posts[p.ID] = &cp
	return nil
}

func (f *fakePostRepo) GetByID(id string) (*models.Post, error) {
	p, ok := f.posts[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakePostRepo) UpdateBody(id, body string) error {
	if p, ok := f.posts[id]; ok {
		p.Body = body
		p.UpdatedAt = time.Now()
	}
	return nil
}

func (f *fakePostRepo) Delete(id string) error {
	delete(f.posts, id)
	return nil
}

func (f *fakePostRepo) ListByAuthor(authorID string, limit, offset int) ([]*models.Post, error) {
	var out []*models.Post
	for _, p := range f.posts {
		if p.AuthorID == authorID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePostRepo) Feed(userID string, limit, offset int) ([]*models.Post, error) {
	return f.ListByAuthor(userID, limit, offset)
}

type fakeCommentRepo struct {
	comments map[string]*models.Comment
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: make(map[string]*models.Comment)}
}

func (f *fakeCommentRepo) Create(c *models.Comment) error {
	c.CreatedAt = time.Now()
	cp := *c
	f.comments[c.ID] = &cp
	return nil
}

func (f *fakeCommentRepo) GetByID(id string) (*models.Comment, error) {
	c, ok := f.comments[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCommentRepo) ListByPost(postID string, limit, offset int) ([]*models.Comment, error) {
	var out []*models.Comment
	for _, c := range f.comments {
		if c.PostID == postID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCommentRepo) Delete(id string) error {
	delete(f.comments, id)
	return nil
}

type fakePairRepo struct {
	pairs map[[2]string]bool
}

func newFakePairRepo() *fakePairRepo {
	return &fakePairRepo{pairs: make(map[[2]string]bool)}
}

func (f *fakePairRepo) Add(a, b string) error {
	f.pairs[[2]string{a, b}] = true
	return nil
}

func (f *fakePairRepo) Remove(a, b string) error {
	delete(f.pairs, [2]string{a, b})
	return nil
}

func (f *fakePairRepo) Exists(a, b string) (bool, error) {
	return f.pairs[[2]string{a, b}], nil
}

func (f *fakePairRepo) ListByUser(userID string, limit, offset int) ([]*models.Post, error) {
	return nil, nil
}

func newPostService() (PostService, *fakePostRepo) {
	posts := newFakePostRepo()
	svc := NewPostService(posts, newFakeCommentRepo(), newFakePairRepo(), newFakePairRepo(), zap.NewNop())
	return svc, posts
}

func TestCreateAndGetPost(t *testing.T) {
	svc, _ := newPostService()
	author := uuid.NewString()

	post, err := svc.CreatePost(author, "learned about HMAC today")
	require.NoError(t, err)
	require.NotNil(t, post)
	assert.Equal(t, author, post.AuthorID)

	got, err := svc.GetPost(post.ID)
	require.NoError(t, err)
	assert.Equal(t, "learned about HMAC today", got.Body)
}

func TestGetPost_NotFound(t *testing.T) {
	svc, _ := newPostService()

	_, err := svc.GetPost(uuid.NewString())
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestUpdatePost_OwnerOnly(t *testing.T) {
	svc, _ := newPostService()
	owner := uuid.NewString()

	post, err := svc.CreatePost(owner, "draft")
	require.NoError(t, err)

	_, err = svc.UpdatePost(uuid.NewString(), post.ID, "hijacked")
	assert.ErrorIs(t, err, ErrNotOwner)

	updated, err := svc.UpdatePost(owner, post.ID, "final")
	require.NoError(t, err)
	assert.Equal(t, "final", updated.Body)
}

func TestDeletePost_OwnerOnly(t *testing.T) {
	svc, _ := newPostService()
	owner := uuid.NewString()

	post, err := svc.CreatePost(owner, "to be removed")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.DeletePost(uuid.NewString(), post.ID), ErrNotOwner)
	require.NoError(t, svc.DeletePost(owner, post.ID))

	_, err = svc.GetPost(post.ID)
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestLike_MissingPost(t *testing.T) {
	svc, _ := newPostService()

	assert.ErrorIs(t, svc.Like(uuid.NewString(), uuid.NewString()), ErrPostNotFound)
}

func TestComments(t *testing.T) {
	svc, _ := newPostService()
	author := uuid.NewString()
	commenter := uuid.NewString()

	post, err := svc.CreatePost(author, "post")
	require.NoError(t, err)

	comment, err := svc.AddComment(commenter, post.ID, "nice notes")
	require.NoError(t, err)

	comments, err := svc.ListComments(post.ID, 20, 0)
	require.NoError(t, err)
	require.Len(t, comments, 1)

	// Only the comment author may delete it.
	assert.ErrorIs(t, svc.DeleteComment(author, comment.ID), ErrNotOwner)
	require.NoError(t, svc.DeleteComment(commenter, comment.ID))

	assert.ErrorIs(t, svc.DeleteComment(commenter, comment.ID), ErrCommentNotFound)
}

func TestAddComment_MissingPost(t *testing.T) {
	svc, _ := newPostService()

	_, err := svc.AddComment(uuid.NewString(), uuid.NewString(), "hello")
	assert.ErrorIs(t, err, ErrPostNotFound)
}
