package memory

import (
	"context"
	"sync"
	"time"

	"github.com/VitaminP8/blogery/internal/apperr"
	"github.com/VitaminP8/blogery/internal/auth"
	"github.com/VitaminP8/blogery/models"

	"golang.org/x/crypto/bcrypt"
)

type UserMemoryStorage struct {
	mu         sync.Mutex
	byEmail    map[string]*models.User
	byUsername map[string]*models.User
	byID       map[uint]*models.User
	nextID     uint
	tokens     *auth.TokenManager
}

func NewUserMemoryStorage(tokens *auth.TokenManager) *UserMemoryStorage {
	return &UserMemoryStorage{
		byEmail:    make(map[string]*models.User),
		byUsername: make(map[string]*models.User),
		byID:       make(map[uint]*models.User),
		nextID:     1,
		tokens:     tokens,
	}
}

// копия: UpdateUsername меняет хранимую структуру на месте под мьютексом
func cloneUser(u *models.User) *models.User {
	cu := *u
	return &cu
}

func (s *UserMemoryStorage) RegisterUser(ctx context.Context, username, email, password string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, exists := s.byEmail[email]
	if exists {
		return nil, apperr.Conflict("user with email %s already exists", email)
	}
	_, exists = s.byUsername[username]
	if exists {
		return nil, apperr.Conflict("username %s is already taken", username)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Password: string(hashedPassword),
	}
	user.ID = s.nextID
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	s.nextID++

	s.byEmail[email] = user
	s.byUsername[username] = user
	s.byID[user.ID] = user

	return cloneUser(user), nil
}

func (s *UserMemoryStorage) LoginUser(ctx context.Context, email, password string) (string, *models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, exists := s.byEmail[email]
	if !exists {
		return "", nil, apperr.Unauthorized("invalid email or password")
	}

	err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password))
	if err != nil {
		return "", nil, apperr.Unauthorized("invalid email or password")
	}

	tokenString, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return "", nil, apperr.Internal(err)
	}

	return tokenString, cloneUser(user), nil
}

func (s *UserMemoryStorage) GetUserById(ctx context.Context, id uint) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, exists := s.byID[id]
	if !exists {
		return nil, apperr.NotFound("user with id %d not found", id)
	}

	return cloneUser(user), nil
}

func (s *UserMemoryStorage) UpdateUsername(ctx context.Context, id uint, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, exists := s.byID[id]
	if !exists {
		return apperr.NotFound("user with id %d not found", id)
	}

	if other, taken := s.byUsername[username]; taken && other != user {
		return apperr.Conflict("username %s is already taken", username)
	}

	delete(s.byUsername, user.Username)
	s.byUsername[username] = user
	user.Username = username
	user.UpdatedAt = time.Now()
	return nil
}
