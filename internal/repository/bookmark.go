package repository

import (
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"studylog/internal/models"
)

type BookmarkRepository interface {
	Add(userID, postID string) error
	Remove(userID, postID string) error
	ListByUser(userID string, limit, offset int) ([]*models.Post, error)
}

type bookmarkRepository struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewBookmarkRepository(db *sqlx.DB, log *zap.Logger) BookmarkRepository {
	return &bookmarkRepository{db: db, log: log}
}

func (r *bookmarkRepository) Add(userID, postID string) error {
	query := `INSERT INTO bookmarks (user_id, post_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	_, err := r.db.Exec(query, userID, postID)
	return err
}

func (r *bookmarkRepository) Remove(userID, postID string) error {
	query := `DELETE FROM bookmarks WHERE user_id = $1 AND post_id = $2`
	_, err := r.db.Exec(query, userID, postID)
	return err
}

func (r *bookmarkRepository) ListByUser(userID string, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	query := `
	SELECT
		p.id,
		p.author_id,
		u.username AS author_username,
		p.body,
		(SELECT COUNT(*) FROM likes l WHERE l.post_id = p.id) AS like_count,
		(SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id) AS comment_count,
		p.created_at,
		p.updated_at
	FROM bookmarks b
	JOIN posts p ON p.id = b.post_id
	JOIN users u ON u.id = p.author_id
	WHERE b.user_id = $1
	ORDER BY b.created_at DESC
	LIMIT $2 OFFSET $3`
	if err := r.db.Select(&posts, query, userID, limit, offset); err != nil {
		return nil, err
	}
	return posts, nil
}
