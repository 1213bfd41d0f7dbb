package user

import (
	"context"

	"github.com/VitaminP8/blogery/models"
)

type UserStorage interface {
	RegisterUser(ctx context.Context, username, email, password string) (*models.User, error)
	LoginUser(ctx context.Context, email, password string) (string, *models.User, error) // JWT + пользователь
	GetUserById(ctx context.Context, id uint) (*models.User, error)
	UpdateUsername(ctx context.Context, id uint, username string) error
}
