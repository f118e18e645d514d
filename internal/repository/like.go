package repository

import (
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type LikeRepository interface {
	Add(postID, userID string) error
	Remove(postID, userID string) error
	Exists(postID, userID string) (bool, error)
}

type likeRepository struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewLikeRepository(db *sqlx.DB, log *zap.Logger) LikeRepository {
	return &likeRepository{db: db, log: log}
}

func (r *likeRepository) Add(postID, userID string) error {
	query := `INSERT INTO likes (post_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	_, err := r.db.Exec(query, postID, userID)
	return err
}

func (r *likeRepository) Remove(postID, userID string) error {
	query := `DELETE FROM likes WHERE post_id = $1 AND user_id = $2`
	_, err := r.db.Exec(query, postID, userID)
	return err
}

func (r *likeRepository) Exists(postID, userID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM likes WHERE post_id = $1 AND user_id = $2)`
	if err := r.db.Get(&exists, query, postID, userID); err != nil {
		return false, err
	}
	return exists, nil
}
