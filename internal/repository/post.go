package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"studylog/internal/models"
)

type PostRepository interface {
	Create(post *models.Post) error
	GetByID(id string) (*models.Post, error)
	UpdateBody(id, body string) error
	Delete(id string) error
	ListByAuthor(authorID string, limit, offset int) ([]*models.Post, error)
	Feed(userID string, limit, offset int) ([]*models.Post, error)
}

type postRepository struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewPostRepository(db *sqlx.DB, log *zap.Logger) PostRepository {
	return &postRepository{db: db, log: log}
}

// postSelect joins the author username and the like/comment counts the
// feed and detail endpoints render.
const postSelect = `
	SELECT
		p.id,
		p.author_id,
		u.username AS author_username,
		p.body,
		(SELECT COUNT(*) FROM likes l WHERE l.post_id = p.id) AS like_count,
		(SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id) AS comment_count,
		p.created_at,
		p.updated_at
	FROM posts p
	JOIN users u ON u.id = p.author_id`

func (r *postRepository) Create(post *models.Post) error {
	query := `INSERT INTO posts (id, author_id, body) VALUES ($1, $2, $3) RETURNING created_at, updated_at`
	return r.db.QueryRowx(query, post.ID, post.AuthorID, post.Body).Scan(&post.CreatedAt, &post.UpdatedAt)
}

func (r *postRepository) GetByID(id string) (*models.Post, error) {
	var post models.Post
	query := postSelect + ` WHERE p.id = $1`
	if err := r.db.Get(&post, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) UpdateBody(id, body string) error {
	query := `UPDATE posts SET body = $1, updated_at = NOW() WHERE id = $2`
	_, err := r.db.Exec(query, body, id)
	return err
}

func (r *postRepository) Delete(id string) error {
	query := `DELETE FROM posts WHERE id = $1`
	_, err := r.db.Exec(query, id)
	return err
}

func (r *postRepository) ListByAuthor(authorID string, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	query := postSelect + ` WHERE p.author_id = $1 ORDER BY p.created_at DESC LIMIT $2 OFFSET $3`
	if err := r.db.Select(&posts, query, authorID, limit, offset); err != nil {
		return nil, err
	}
	return posts, nil
}

// Feed returns the newest posts by the user and by every author the
// user follows.
func (r *postRepository) Feed(userID string, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	query := postSelect + `
	WHERE p.author_id = $1
	   OR p.author_id IN (SELECT followee_id FROM follows WHERE follower_id = $1)
	ORDER BY p.created_at DESC
	LIMIT $2 OFFSET $3`
	if err := r.db.Select(&posts, query, userID, limit, offset); err != nil {
		return nil, err
	}
	return posts, nil
}
