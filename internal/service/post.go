package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"studylog/internal/models"
	"studylog/internal/repository"
)

var (
	ErrPostNotFound    = errors.New("post not found")
	ErrCommentNotFound = errors.New("comment not found")
	ErrNotOwner        = errors.New("not the owner")
)

type PostService interface {
	CreatePost(authorID, body string) (*models.Post, error)
	GetPost(id string) (*models.Post, error)
	UpdatePost(userID, postID, body string) (*models.Post, error)
	DeletePost(userID, postID string) error
	Feed(userID string, limit, offset int) ([]*models.Post, error)
	ListByAuthor(authorID string, limit, offset int) ([]*models.Post, error)

	Like(userID, postID string) error
	Unlike(userID, postID string) error
	Bookmark(userID, postID string) error
	Unbookmark(userID, postID string) error
	Bookmarks(userID string, limit, offset int) ([]*models.Post, error)

	AddComment(userID, postID, body string) (*models.Comment, error)
	ListComments(postID string, limit, offset int) ([]*models.Comment, error)
	DeleteComment(userID, commentID string) error
}

type postService struct {
	posts     repository.PostRepository
	comments  repository.CommentRepository
	likes     repository.LikeRepository
	bookmarks repository.BookmarkRepository
	log       *zap.Logger
}

func NewPostService(posts repository.PostRepository, comments repository.CommentRepository,
	likes repository.LikeRepository, bookmarks repository.BookmarkRepository, log *zap.Logger) PostService {
	return &postService{posts: posts, comments: comments, likes: likes, bookmarks: bookmarks, log: log}
}

func (s *postService) CreatePost(authorID, body string) (*models.Post, error) {
	post := &models.Post{
		ID:       uuid.NewString(),
		AuthorID: authorID,
		Body:     body,
	}
	if err := s.posts.Create(post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	return s.posts.GetByID(post.ID)
}

func (s *postService) GetPost(id string) (*models.Post, error) {
	post, err := s.posts.GetByID(id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	return post, nil
}

func (s *postService) UpdatePost(userID, postID, body string) (*models.Post, error) {
	post, err := s.GetPost(postID)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != userID {
		return nil, ErrNotOwner
	}
	if err := s.posts.UpdateBody(postID, body); err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}
	return s.posts.GetByID(postID)
}

func (s *postService) DeletePost(userID, postID string) error {
	post, err := s.GetPost(postID)
	if err != nil {
		return err
	}
	if post.AuthorID != userID {
		return ErrNotOwner
	}
	return s.posts.Delete(postID)
}

func (s *postService) Feed(userID string, limit, offset int) ([]*models.Post, error) {
	return s.posts.Feed(userID, limit, offset)
}

func (s *postService) ListByAuthor(authorID string, limit, offset int) ([]*models.Post, error) {
	return s.posts.ListByAuthor(authorID, limit, offset)
}

func (s *postService) Like(userID, postID string) error {
	if _, err := s.GetPost(postID); err != nil {
		return err
	}
	return s.likes.Add(postID, userID)
}

func (s *postService) Unlike(userID, postID string) error {
	return s.likes.Remove(postID, userID)
}

func (s *postService) Bookmark(userID, postID string) error {
	if _, err := s.GetPost(postID); err != nil {
		return err
	}
	return s.bookmarks.Add(userID, postID)
}

func (s *postService) Unbookmark(userID, postID string) error {
	return s.bookmarks.Remove(userID, postID)
}

func (s *postService) Bookmarks(userID string, limit, offset int) ([]*models.Post, error) {
	return s.bookmarks.ListByUser(userID, limit, offset)
}

func (s *postService) AddComment(userID, postID, body string) (*models.Comment, error) {
	if _, err := s.GetPost(postID); err != nil {
		return nil, err
	}
	comment := &models.Comment{
		ID:       uuid.NewString(),
		PostID:   postID,
		AuthorID: userID,
		Body:     body,
	}
	if err := s.comments.Create(comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	return s.comments.GetByID(comment.ID)
}

func (s *postService) ListComments(postID string, limit, offset int) ([]*models.Comment, error) {
	if _, err := s.GetPost(postID); err != nil {
		return nil, err
	}
	return s.comments.ListByPost(postID, limit, offset)
}

func (s *postService) DeleteComment(userID, commentID string) error {
	comment, err := s.comments.GetByID(commentID)
	if err != nil {
		return err
	}
	if comment == nil {
		return ErrCommentNotFound
	}
	if comment.AuthorID != userID {
		return ErrNotOwner
	}
	return s.comments.Delete(commentID)
}
