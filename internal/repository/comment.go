package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"studylog/internal/models"
)

type CommentRepository interface {
	Create(comment *models.Comment) error
	GetByID(id string) (*models.Comment, error)
	ListByPost(postID string, limit, offset int) ([]*models.Comment, error)
	Delete(id string) error
}

type commentRepository struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewCommentRepository(db *sqlx.DB, log *zap.Logger) CommentRepository {
	return &commentRepository{db: db, log: log}
}

const commentSelect = `
	SELECT c.id, c.post_id, c.author_id, u.username AS author_username, c.body, c.created_at
	FROM comments c
	JOIN users u ON u.id = c.author_id`

func (r *commentRepository) Create(comment *models.Comment) error {
	query := `INSERT INTO comments (id, post_id, author_id, body) VALUES ($1, $2, $3, $4) RETURNING created_at`
	return r.db.QueryRowx(query, comment.ID, comment.PostID, comment.AuthorID, comment.Body).Scan(&comment.CreatedAt)
}

func (r *commentRepository) GetByID(id string) (*models.Comment, error) {
	var comment models.Comment
	query := commentSelect + ` WHERE c.id = $1`
	if err := r.db.Get(&comment, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) ListByPost(postID string, limit, offset int) ([]*models.Comment, error) {
	var comments []*models.Comment
	query := commentSelect + ` WHERE c.post_id = $1 ORDER BY c.created_at ASC LIMIT $2 OFFSET $3`
	if err := r.db.Select(&comments, query, postID, limit, offset); err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *commentRepository) Delete(id string) error {
	query := `DELETE FROM comments WHERE id = $1`
	_, err := r.db.Exec(query, id)
	return err
}
