package comment

import (
	"context"

	"github.com/VitaminP8/blogery/models"
)

const MaxContentLength = 2000

type CommentStorage interface {
	CreateComment(ctx context.Context, postID uint, content string) (*models.Comment, error)
	GetCommentById(ctx context.Context, id uint) (*models.Comment, error)
	GetComments(ctx context.Context, postID uint, limit, offset int) ([]*models.Comment, error)
	DeleteCommentById(ctx context.Context, id uint) error
}
