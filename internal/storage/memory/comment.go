package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/VitaminP8/blogery/internal/apperr"
	"github.com/VitaminP8/blogery/internal/auth"
	"github.com/VitaminP8/blogery/internal/comment"
	"github.com/VitaminP8/blogery/internal/subscription"
	"github.com/VitaminP8/blogery/models"
)

type CommentMemoryStorage struct {
	mu       sync.Mutex
	comments map[uint]*models.Comment
	nextID   uint
	posts    *PostMemoryStorage   // Хранилище постов (внедрение зависимости (DI))
	manager  subscription.Manager
}

func NewCommentMemoryStorage(posts *PostMemoryStorage, manager subscription.Manager) *CommentMemoryStorage {
	s := &CommentMemoryStorage{
		comments: make(map[uint]*models.Comment),
		nextID:   1,
		posts:    posts,
		manager:  manager,
	}
	// при удалении поста его комментарии удаляются каскадно
	posts.cascade = s.removeByPost
	return s
}

// копия: вызывающий не должен делить структуру с хранилищем
func cloneComment(c *models.Comment) *models.Comment {
	cc := *c
	return &cc
}

func (s *CommentMemoryStorage) CreateComment(ctx context.Context, postID uint, content string) (*models.Comment, error) {
	if len(content) == 0 || len(content) > comment.MaxContentLength {
		return nil, apperr.Validation("comment content is empty or too long")
	}

	userID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		return nil, apperr.Unauthorized("could not get user id from context")
	}

	// проверяем существование поста до захвата собственного мьютекса
	_, err = s.posts.GetPostById(ctx, postID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()

	c := &models.Comment{
		PostID:  postID,
		UserID:  userID,
		Content: content,
	}
	c.ID = s.nextID
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	s.nextID++

	s.comments[c.ID] = c
	s.mu.Unlock()

	if s.manager != nil {
		s.manager.Publish(postID, cloneComment(c))
	}

	return cloneComment(c), nil
}

func (s *CommentMemoryStorage) GetCommentById(ctx context.Context, id uint) (*models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, exists := s.comments[id]
	if !exists {
		return nil, apperr.NotFound("comment with id %d not found", id)
	}

	return cloneComment(c), nil
}

func (s *CommentMemoryStorage) GetComments(ctx context.Context, postID uint, limit, offset int) ([]*models.Comment, error) {
	_, err := s.posts.GetPostById(ctx, postID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []*models.Comment
	for _, c := range s.comments {
		if c.PostID == postID {
			matched = append(matched, c)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].ID < matched[j].ID
	})

	if offset > len(matched) {
		offset = len(matched)
	}
	end := offset + limit
	if limit <= 0 || end > len(matched) {
		end = len(matched)
	}

	result := make([]*models.Comment, 0, end-offset)
	for _, c := range matched[offset:end] {
		result = append(result, cloneComment(c))
	}

	return result, nil
}

func (s *CommentMemoryStorage) DeleteCommentById(ctx context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, exists := s.comments[id]
	if !exists {
		return apperr.NotFound("comment with id %d not found", id)
	}

	delete(s.comments, id)
	return nil
}

func (s *CommentMemoryStorage) removeByPost(postID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, c := range s.comments {
		if c.PostID == postID {
			delete(s.comments, id)
		}
	}
}
