package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/VitaminP8/blogery/internal/apperr"
	"github.com/VitaminP8/blogery/internal/auth"
	"github.com/VitaminP8/blogery/internal/post"
	"github.com/VitaminP8/blogery/models"
	"github.com/jinzhu/gorm"
)

// % и _ в поисковой строке - литералы, а не шаблоны LIKE
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type PostPostgresStorage struct {
	db *gorm.DB
}

func NewPostPostgresStorage(db *gorm.DB) *PostPostgresStorage {
	return &PostPostgresStorage{db: db}
}

func (s *PostPostgresStorage) CreatePost(ctx context.Context, input post.CreatePostInput) (*models.Post, error) {
	userID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		return nil, apperr.Unauthorized("could not get user id from context")
	}

	p := &models.Post{
		Title:         input.Title,
		Content:       input.Content,
		ImageURL:      input.ImageURL,
		ImagePublicID: input.ImagePublicID,
		UserID:        userID,
	}

	err = s.db.Create(p).Error
	if err != nil {
		return nil, fmt.Errorf("could not create post: %w", err)
	}

	return p, nil
}

func (s *PostPostgresStorage) GetPostById(ctx context.Context, id uint) (*models.Post, error) {
	var p models.Post
	err := s.db.First(&p, id).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, apperr.NotFound("post with id %d not found", id)
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}

	return &p, nil
}

func (s *PostPostgresStorage) ListPosts(ctx context.Context, opts post.ListOptions) (*post.PostPage, error) {
	opts = opts.Normalize()

	query := s.db.Model(&models.Post{})
	if opts.Search != "" {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(opts.Search)) + "%"
		// ESCAPE обязателен: у SQLite в тестах нет escape-символа по умолчанию
		query = query.Where(`LOWER(title) LIKE ? ESCAPE '\' OR LOWER(content) LIKE ? ESCAPE '\'`, pattern, pattern)
	}
	if opts.AuthorID != 0 {
		query = query.Where("user_id = ?", opts.AuthorID)
	}

	var total int
	err := query.Count(&total).Error
	if err != nil {
		return nil, fmt.Errorf("could not count posts: %w", err)
	}

	var posts []models.Post
	err = query.
		Order("created_at DESC, id DESC").
		Offset(opts.Offset()).
		Limit(opts.Limit).
		Find(&posts).Error
	if err != nil {
		return nil, fmt.Errorf("could not get posts: %w", err)
	}

	results := make([]*models.Post, 0, len(posts))
	for i := range posts {
		results = append(results, &posts[i])
	}

	return &post.PostPage{
		Data:       results,
		Total:      total,
		Page:       opts.Page,
		Limit:      opts.Limit,
		TotalPages: post.CountPages(total, opts.Limit),
	}, nil
}

func (s *PostPostgresStorage) UpdatePost(ctx context.Context, id uint, input post.UpdatePostInput) error {
	var p models.Post
	err := s.db.First(&p, id).Error
	if gorm.IsRecordNotFoundError(err) {
		return apperr.NotFound("post with id %d not found", id)
	}
	if err != nil {
		return apperr.Internal(err)
	}

	// автор поста не меняется никогда
	err = s.db.Model(&p).Updates(map[string]interface{}{
		"title":           input.Title,
		"content":         input.Content,
		"image_url":       input.ImageURL,
		"image_public_id": input.ImagePublicID,
	}).Error
	if err != nil {
		return fmt.Errorf("could not update post: %w", err)
	}

	return nil
}

func (s *PostPostgresStorage) DeletePostById(ctx context.Context, id uint) error {
	var p models.Post
	err := s.db.First(&p, id).Error
	if gorm.IsRecordNotFoundError(err) {
		return apperr.NotFound("post with id %d not found", id)
	}
	if err != nil {
		return apperr.Internal(err)
	}

	// комментарии удаляются каскадно вместе с постом
	err = s.db.Where("post_id = ?", id).Delete(&models.Comment{}).Error
	if err != nil {
		return fmt.Errorf("could not delete post comments: %w", err)
	}

	err = s.db.Delete(&models.Post{}, id).Error
	if err != nil {
		return fmt.Errorf("could not delete post: %w", err)
	}

	return nil
}
