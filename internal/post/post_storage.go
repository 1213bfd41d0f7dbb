package post

import (
	"context"

	"github.com/VitaminP8/blogery/models"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

type CreatePostInput struct {
	Title         string
	Content       string
	ImageURL      string
	ImagePublicID string
}

type UpdatePostInput struct {
	Title         string
	Content       string
	ImageURL      string
	ImagePublicID string
}

// ListOptions - параметры выборки постов
type ListOptions struct {
	Page     int
	Limit    int
	Search   string // подстрока (без учета регистра) в заголовке или тексте
	AuthorID uint   // 0 - посты всех авторов
}

// Normalize приводит page/limit к допустимым значениям
func (o ListOptions) Normalize() ListOptions {
	if o.Page < 1 {
		o.Page = 1
	}
	if o.Limit < 1 {
		o.Limit = DefaultLimit
	}
	if o.Limit > MaxLimit {
		o.Limit = MaxLimit
	}
	return o
}

func (o ListOptions) Offset() int {
	return (o.Page - 1) * o.Limit
}

// PostPage - страница выдачи: total всегда отражает полное число строк
// под фильтром, даже если запрошенная страница за пределами данных
type PostPage struct {
	Data       []*models.Post
	Total      int
	Page       int
	Limit      int
	TotalPages int
}

// TotalPages == ceil(total/limit)
func CountPages(total, limit int) int {
	return (total + limit - 1) / limit
}

type PostStorage interface {
	CreatePost(ctx context.Context, input CreatePostInput) (*models.Post, error)
	GetPostById(ctx context.Context, id uint) (*models.Post, error)
	ListPosts(ctx context.Context, opts ListOptions) (*PostPage, error)
	UpdatePost(ctx context.Context, id uint, input UpdatePostInput) error
	DeletePostById(ctx context.Context, id uint) error
}
