package postgres

import (
	"context"
	"fmt"

	"github.com/VitaminP8/blogery/internal/apperr"
	"github.com/VitaminP8/blogery/internal/auth"
	"github.com/VitaminP8/blogery/internal/comment"
	"github.com/VitaminP8/blogery/internal/subscription"
	"github.com/VitaminP8/blogery/models"
	"github.com/jinzhu/gorm"
)

type CommentPostgresStorage struct {
	db      *gorm.DB
	manager subscription.Manager
}

func NewCommentPostgresStorage(db *gorm.DB, manager subscription.Manager) *CommentPostgresStorage {
	return &CommentPostgresStorage{db: db, manager: manager}
}

func (s *CommentPostgresStorage) CreateComment(ctx context.Context, postID uint, content string) (*models.Comment, error) {
	if len(content) == 0 || len(content) > comment.MaxContentLength {
		return nil, apperr.Validation("comment content is empty or too long")
	}

	userID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		return nil, apperr.Unauthorized("could not get user id from context")
	}

	var p models.Post
	err = s.db.First(&p, postID).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, apperr.NotFound("post with id %d not found", postID)
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}

	c := &models.Comment{
		PostID:  postID,
		UserID:  userID,
		Content: content,
	}

	err = s.db.Create(c).Error
	if err != nil {
		return nil, fmt.Errorf("could not create comment: %w", err)
	}

	// уведомляем подписчиков поста
	if s.manager != nil {
		s.manager.Publish(postID, c)
	}

	return c, nil
}

func (s *CommentPostgresStorage) GetCommentById(ctx context.Context, id uint) (*models.Comment, error) {
	var c models.Comment
	err := s.db.First(&c, id).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, apperr.NotFound("comment with id %d not found", id)
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}

	return &c, nil
}

func (s *CommentPostgresStorage) GetComments(ctx context.Context, postID uint, limit, offset int) ([]*models.Comment, error) {
	var p models.Post
	err := s.db.First(&p, postID).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, apperr.NotFound("post with id %d not found", postID)
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}

	var comments []models.Comment
	err = s.db.Where("post_id = ?", postID).
		Order("created_at ASC, id ASC").
		Limit(limit).
		Offset(offset).
		Find(&comments).Error
	if err != nil {
		return nil, fmt.Errorf("could not get comments: %w", err)
	}

	results := make([]*models.Comment, 0, len(comments))
	for i := range comments {
		results = append(results, &comments[i])
	}

	return results, nil
}

func (s *CommentPostgresStorage) DeleteCommentById(ctx context.Context, id uint) error {
	var c models.Comment
	err := s.db.First(&c, id).Error
	if gorm.IsRecordNotFoundError(err) {
		return apperr.NotFound("comment with id %d not found", id)
	}
	if err != nil {
		return apperr.Internal(err)
	}

	err = s.db.Delete(&models.Comment{}, id).Error
	if err != nil {
		return fmt.Errorf("could not delete comment: %w", err)
	}

	return nil
}
