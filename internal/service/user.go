package service

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"studylog/internal/models"
	"studylog/internal/repository"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrSelfFollow   = errors.New("cannot follow yourself")
)

// Profile is a public view of a user with follow counts.
type Profile struct {
	User      *models.User `json:"user"`
	Followers int          `json:"followers"`
	Following int          `json:"following"`
}

type UserService interface {
	Profile(username string) (*Profile, error)
	UpdateProfile(userID, displayName, bio string) error
	Follow(followerID, username string) error
	Unfollow(followerID, username string) error
	Followers(username string, limit, offset int) ([]*models.User, error)
	Following(username string, limit, offset int) ([]*models.User, error)
	SetEnabled(userID string, enabled bool) error
}

type userService struct {
	users   repository.UserRepository
	follows repository.FollowRepository
	log     *zap.Logger
}

func NewUserService(users repository.UserRepository, follows repository.FollowRepository, log *zap.Logger) UserService {
	return &userService{users: users, follows: follows, log: log}
}

func (s *userService) getByUsername(username string) (*models.User, error) {
	user, err := s.users.GetByUsername(username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *userService) Profile(username string) (*Profile, error) {
	user, err := s.getByUsername(username)
	if err != nil {
		return nil, err
	}
	followers, following, err := s.follows.Counts(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count follows: %w", err)
	}
	return &Profile{User: user, Followers: followers, Following: following}, nil
}

func (s *userService) UpdateProfile(userID, displayName, bio string) error {
	return s.users.UpdateProfile(userID, displayName, bio)
}

func (s *userService) Follow(followerID, username string) error {
	followee, err := s.getByUsername(username)
	if err != nil {
		return err
	}
	if followee.ID == followerID {
		return ErrSelfFollow
	}
	return s.follows.Add(followerID, followee.ID)
}

func (s *userService) Unfollow(followerID, username string) error {
	followee, err := s.getByUsername(username)
	if err != nil {
		return err
	}
	return s.follows.Remove(followerID, followee.ID)
}

func (s *userService) Followers(username string, limit, offset int) ([]*models.User, error) {
	user, err := s.getByUsername(username)
	if err != nil {
		return nil, err
	}
	return s.follows.Followers(user.ID, limit, offset)
}

func (s *userService) Following(username string, limit, offset int) ([]*models.User, error) {
	user, err := s.getByUsername(username)
	if err != nil {
		return nil, err
	}
	return s.follows.Following(user.ID, limit, offset)
}

func (s *userService) SetEnabled(userID string, enabled bool) error {
	user, err := s.users.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	return s.users.SetEnabled(userID, enabled)
}
