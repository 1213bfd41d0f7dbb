package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/VitaminP8/blogery/internal/apperr"
	"github.com/VitaminP8/blogery/internal/auth"
	"github.com/VitaminP8/blogery/internal/post"
	"github.com/VitaminP8/blogery/models"
)

type PostMemoryStorage struct {
	mu      sync.Mutex
	posts   map[uint]*models.Post
	nextID  uint
	cascade func(postID uint) // удаление комментариев поста (выставляется хранилищем комментариев)
}

func NewPostMemoryStorage() *PostMemoryStorage {
	return &PostMemoryStorage{
		posts:  make(map[uint]*models.Post),
		nextID: 1,
	}
}

// копия, чтобы вызывающий не делил структуру с хранилищем:
// UpdatePost меняет хранимую структуру на месте под мьютексом
func clonePost(p *models.Post) *models.Post {
	cp := *p
	return &cp
}

func (s *PostMemoryStorage) CreatePost(ctx context.Context, input post.CreatePostInput) (*models.Post, error) {
	// Контекст — это read-only структура (при каждом запросе он не обновляется, а создается заново)(поэтому над мьютексом)
	userID, err := auth.GetUserIDFromContext(ctx)
	if err != nil {
		return nil, apperr.Unauthorized("could not get user id from context")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := &models.Post{
		Title:         input.Title,
		Content:       input.Content,
		ImageURL:      input.ImageURL,
		ImagePublicID: input.ImagePublicID,
		UserID:        userID,
	}
	p.ID = s.nextID
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	s.nextID++

	s.posts[p.ID] = p
	return clonePost(p), nil
}

func (s *PostMemoryStorage) GetPostById(ctx context.Context, id uint) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, exists := s.posts[id]
	if !exists {
		return nil, apperr.NotFound("post with id %d not found", id)
	}

	return clonePost(p), nil
}

func (s *PostMemoryStorage) ListPosts(ctx context.Context, opts post.ListOptions) (*post.PostPage, error) {
	opts = opts.Normalize()

	s.mu.Lock()
	defer s.mu.Unlock()

	search := strings.ToLower(opts.Search)

	var matched []*models.Post
	for _, p := range s.posts {
		if opts.AuthorID != 0 && p.UserID != opts.AuthorID {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Title), search) &&
			!strings.Contains(strings.ToLower(p.Content), search) {
			continue
		}
		matched = append(matched, p)
	}

	// новые посты первыми
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)

	start := opts.Offset()
	if start > total {
		start = total
	}
	end := start + opts.Limit
	if end > total {
		end = total
	}

	data := make([]*models.Post, 0, end-start)
	for _, p := range matched[start:end] {
		data = append(data, clonePost(p))
	}

	return &post.PostPage{
		Data:       data,
		Total:      total,
		Page:       opts.Page,
		Limit:      opts.Limit,
		TotalPages: post.CountPages(total, opts.Limit),
	}, nil
}

func (s *PostMemoryStorage) UpdatePost(ctx context.Context, id uint, input post.UpdatePostInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, exists := s.posts[id]
	if !exists {
		return apperr.NotFound("post with id %d not found", id)
	}

	p.Title = input.Title
	p.Content = input.Content
	p.ImageURL = input.ImageURL
	p.ImagePublicID = input.ImagePublicID
	p.UpdatedAt = time.Now()
	return nil
}

func (s *PostMemoryStorage) DeletePostById(ctx context.Context, id uint) error {
	s.mu.Lock()
	cascade := s.cascade
	_, exists := s.posts[id]
	if !exists {
		s.mu.Unlock()
		return apperr.NotFound("post with id %d not found", id)
	}
	delete(s.posts, id)
	s.mu.Unlock()

	// комментарии удаляются каскадно (вне мьютекса - у хранилища комментариев свой)
	if cascade != nil {
		cascade(id)
	}
	return nil
}
