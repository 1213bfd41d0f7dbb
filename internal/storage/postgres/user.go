package postgres

import (
	"context"
	"fmt"

	"github.com/VitaminP8/blogery/internal/apperr"
	"github.com/VitaminP8/blogery/internal/auth"
	"github.com/VitaminP8/blogery/models"
	"github.com/jinzhu/gorm"

	"golang.org/x/crypto/bcrypt"
)

type UserPostgresStorage struct {
	db     *gorm.DB
	tokens *auth.TokenManager
}

func NewUserPostgresStorage(db *gorm.DB, tokens *auth.TokenManager) *UserPostgresStorage {
	return &UserPostgresStorage{db: db, tokens: tokens}
}

func (s *UserPostgresStorage) RegisterUser(ctx context.Context, username, email, password string) (*models.User, error) {
	// проверка - не заняты ли email и username (оба уникальны в схеме)
	var existUser models.User
	err := s.db.Where("email = ?", email).First(&existUser).Error
	if err == nil {
		return nil, apperr.Conflict("user with email %s already exists", email)
	}
	if !gorm.IsRecordNotFoundError(err) {
		return nil, apperr.Internal(err)
	}

	err = s.db.Where("username = ?", username).First(&existUser).Error
	if err == nil {
		return nil, apperr.Conflict("username %s is already taken", username)
	}
	if !gorm.IsRecordNotFoundError(err) {
		return nil, apperr.Internal(err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Password: string(hashedPassword),
	}

	err = s.db.Create(user).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

func (s *UserPostgresStorage) LoginUser(ctx context.Context, email, password string) (string, *models.User, error) {
	var user models.User
	err := s.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		// не раскрываем, что именно неверно - email или пароль
		return "", nil, apperr.Unauthorized("invalid email or password")
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password))
	if err != nil {
		return "", nil, apperr.Unauthorized("invalid email or password")
	}

	tokenString, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, &user, nil
}

func (s *UserPostgresStorage) GetUserById(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := s.db.First(&user, id).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, apperr.NotFound("user with id %d not found", id)
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}

	return &user, nil
}

func (s *UserPostgresStorage) UpdateUsername(ctx context.Context, id uint, username string) error {
	var user models.User
	err := s.db.First(&user, id).Error
	if gorm.IsRecordNotFoundError(err) {
		return apperr.NotFound("user with id %d not found", id)
	}
	if err != nil {
		return apperr.Internal(err)
	}

	// имя не должно быть занято другим пользователем
	var other models.User
	err = s.db.Where("username = ? AND id <> ?", username, id).First(&other).Error
	if err == nil {
		return apperr.Conflict("username %s is already taken", username)
	}
	if !gorm.IsRecordNotFoundError(err) {
		return apperr.Internal(err)
	}

	err = s.db.Model(&user).Update("username", username).Error
	if err != nil {
		return fmt.Errorf("could not update username: %w", err)
	}

	return nil
}
