package guard

import (
	"context"
	"fmt"

	"github.com/VitaminP8/blogery/internal/apperr"
	"github.com/VitaminP8/blogery/internal/comment"
	"github.com/VitaminP8/blogery/internal/post"
)

// Kind - вид охраняемого ресурса
type Kind string

const (
	KindPost    Kind = "post"
	KindComment Kind = "comment"
)

// Guard решает, может ли принципал изменять ресурс.
// Единственный предикат - авторство: ресурс принадлежит тому, кто его создал
type Guard struct {
	posts    post.PostStorage
	comments comment.CommentStorage
}

func New(posts post.PostStorage, comments comment.CommentStorage) *Guard {
	return &Guard{posts: posts, comments: comments}
}

// Check возвращает nil (разрешено) или ошибку Forbidden.
// Отсутствующий ресурс пропускается: 404 должен родиться в обработчике,
// а не здесь, поэтому guard на "not found" не отвечает отказом
func (g *Guard) Check(ctx context.Context, principalID uint, kind Kind, id uint) error {
	ownerID, err := g.ownerOf(ctx, kind, id)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil
		}
		return err
	}

	if ownerID != principalID {
		return apperr.Forbidden("you are not the author of this %s", kind)
	}

	return nil
}

func (g *Guard) ownerOf(ctx context.Context, kind Kind, id uint) (uint, error) {
	switch kind {
	case KindPost:
		p, err := g.posts.GetPostById(ctx, id)
		if err != nil {
			return 0, err
		}
		return p.UserID, nil
	case KindComment:
		c, err := g.comments.GetCommentById(ctx, id)
		if err != nil {
			return 0, err
		}
		return c.UserID, nil
	default:
		return 0, fmt.Errorf("unsupported resource kind: %s", kind)
	}
}
