package repository

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"studylog/internal/models"
)

type UserRepository interface {
	Create(user *models.User) error
	GetByLogin(login string) (*models.User, error)
	GetByID(id string) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	UpdateProfile(id, displayName, bio string) error
	SetEnabled(id string, enabled bool) error
}

type userRepository struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewUserRepository(db *sqlx.DB, log *zap.Logger) UserRepository {
	return &userRepository{db: db, log: log}
}

const userColumns = `id, username, email, password_hash, display_name, bio, role, enabled, created_at`

func (r *userRepository) Create(user *models.User) error {
	query := `INSERT INTO users (id, username, email, password_hash, display_name, bio, role, enabled)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING created_at`
	return r.db.QueryRowx(query, user.ID, user.Username, user.Email, user.PasswordHash,
		user.DisplayName, user.Bio, user.Role, user.Enabled).Scan(&user.CreatedAt)
}

// GetByLogin resolves a login identifier, which may be either an email
// address or a username. A missing account yields (nil, nil).
func (r *userRepository) GetByLogin(login string) (*models.User, error) {
	var user models.User
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1 OR email = $1`
	if err := r.db.Get(&user, query, login); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByID(id string) (*models.User, error) {
	var user models.User
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	if err := r.db.Get(&user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(username string) (*models.User, error) {
	var user models.User
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	if err := r.db.Get(&user, query, username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) UpdateProfile(id, displayName, bio string) error {
	query := `UPDATE users SET display_name = $1, bio = $2 WHERE id = $3`
	_, err := r.db.Exec(query, displayName, bio, id)
	return err
}

func (r *userRepository) SetEnabled(id string, enabled bool) error {
	query := `UPDATE users SET enabled = $1 WHERE id = $2`
	_, err := r.db.Exec(query, enabled, id)
	return err
}
