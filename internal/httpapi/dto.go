package httpapi

import (
	"time"

	"github.com/VitaminP8/blogery/models"
)

type userDTO struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

func toUserDTO(u *models.User) userDTO {
	return userDTO{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

type postDTO struct {
	ID            uint      `json:"id"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	ImageURL      string    `json:"imageUrl,omitempty"`
	ImagePublicID string    `json:"imagePublicId,omitempty"`
	AuthorID      uint      `json:"authorId"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func toPostDTO(p *models.Post) postDTO {
	return postDTO{
		ID:            p.ID,
		Title:         p.Title,
		Content:       p.Content,
		ImageURL:      p.ImageURL,
		ImagePublicID: p.ImagePublicID,
		AuthorID:      p.UserID,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

type commentDTO struct {
	ID        uint      `json:"id"`
	PostID    uint      `json:"postId"`
	AuthorID  uint      `json:"authorId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

func toCommentDTO(c *models.Comment) commentDTO {
	return commentDTO{
		ID:        c.ID,
		PostID:    c.PostID,
		AuthorID:  c.UserID,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
	}
}

// postPageDTO - конверт пагинации для списка постов
type postPageDTO struct {
	Data       []postDTO `json:"data"`
	Total      int       `json:"total"`
	Page       int       `json:"page"`
	Limit      int       `json:"limit"`
	TotalPages int       `json:"totalPages"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type idResponse struct {
	ID uint `json:"id"`
}
