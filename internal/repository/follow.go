package repository

import (
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"studylog/internal/models"
)

type FollowRepository interface {
	Add(followerID, followeeID string) error
	Remove(followerID, followeeID string) error
	Followers(userID string, limit, offset int) ([]*models.User, error)
	Following(userID string, limit, offset int) ([]*models.User, error)
	Counts(userID string) (followers, following int, err error)
}

type followRepository struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewFollowRepository(db *sqlx.DB, log *zap.Logger) FollowRepository {
	return &followRepository{db: db, log: log}
}

func (r *followRepository) Add(followerID, followeeID string) error {
	query := `INSERT INTO follows (follower_id, followee_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	_, err := r.db.Exec(query, followerID, followeeID)
	return err
}

func (r *followRepository) Remove(followerID, followeeID string) error {
	query := `DELETE FROM follows WHERE follower_id = $1 AND followee_id = $2`
	_, err := r.db.Exec(query, followerID, followeeID)
	return err
}

func (r *followRepository) Followers(userID string, limit, offset int) ([]*models.User, error) {
	var users []*models.User
	query := `
		SELECT u.id, u.username, u.email, u.password_hash, u.display_name, u.bio, u.role, u.enabled, u.created_at
		FROM follows f
		JOIN users u ON u.id = f.follower_id
		WHERE f.followee_id = $1
		ORDER BY f.created_at DESC
		LIMIT $2 OFFSET $3`
	if err := r.db.Select(&users, query, userID, limit, offset); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *followRepository) Following(userID string, limit, offset int) ([]*models.User, error) {
	var users []*models.User
	query := `
		SELECT u.id, u.username, u.email, u.password_hash, u.display_name, u.bio, u.role, u.enabled, u.created_at
		FROM follows f
		JOIN users u ON u.id = f.followee_id
		WHERE f.follower_id = $1
		ORDER BY f.created_at DESC
		LIMIT $2 OFFSET $3`
	if err := r.db.Select(&users, query, userID, limit, offset); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *followRepository) Counts(userID string) (int, int, error) {
	var followers, following int
	if err := r.db.Get(&followers, `SELECT COUNT(*) FROM follows WHERE followee_id = $1`, userID); err != nil {
		return 0, 0, err
	}
	if err := r.db.Get(&following, `SELECT COUNT(*) FROM follows WHERE follower_id = $1`, userID); err != nil {
		return 0, 0, err
	}
	return followers, following, nil
}
