package services

import (
	"context"
	"errors"

	"task-assignment/backend/internal/models"
)

var ErrDuplicateEmail = errors.New("a user with this email already exists")

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	List(ctx context.Context) ([]models.User, error)
	FindByID(ctx context.Context, id uint) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

type UserService interface {
	CreateUser(ctx context.Context, input models.UserCreateInput) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
}

type UserServiceImpl struct {
	store UserStore
}

func NewUserService(store UserStore) *UserServiceImpl {
	return &UserServiceImpl{store: store}
}

func (s *UserServiceImpl) CreateUser(ctx context.Context, input models.UserCreateInput) (*models.User, error) {
	existing, err := s.store.FindByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateEmail
	}

	user := &models.User{Name: input.Name, Email: input.Email}
	if err := s.store.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserServiceImpl) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.store.List(ctx)
}

func (s *UserServiceImpl) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return s.store.FindByID(ctx, id)
}
