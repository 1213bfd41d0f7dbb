package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/VitaminP8/blogery/internal/apperr"
	"github.com/VitaminP8/blogery/internal/auth"
	"github.com/VitaminP8/blogery/internal/guard"
	"github.com/VitaminP8/blogery/internal/post"
	"github.com/gorilla/mux"
)

const (
	maxTitleLength   = 200
	maxContentLength = 10000
)

type PostHandler struct {
	*responder
	posts post.PostStorage
	guard *guard.Guard
}

type postRequest struct {
	Title         string `json:"title"`
	Content       string `json:"content"`
	ImageURL      string `json:"imageUrl"`
	ImagePublicID string `json:"imagePublicId"`
}

func (req *postRequest) validate() error {
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" || len(req.Title) > maxTitleLength {
		return apperr.Validation("title is required and must be at most %d characters", maxTitleLength)
	}
	if req.Content == "" || len(req.Content) > maxContentLength {
		return apperr.Validation("content is required and must be at most %d characters", maxContentLength)
	}
	return nil
}

// List - GET /posts?authorId&search&page&limit
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	opts, err := parseListOptions(r)
	if err != nil {
		h.Error(w, r, err)
		return
	}

	page, err := h.posts.ListPosts(r.Context(), opts)
	if err != nil {
		h.Error(w, r, err)
		return
	}

	data := make([]postDTO, 0, len(page.Data))
	for _, p := range page.Data {
		data = append(data, toPostDTO(p))
	}

	h.JSON(w, http.StatusOK, postPageDTO{
		Data:       data,
		Total:      page.Total,
		Page:       page.Page,
		Limit:      page.Limit,
		TotalPages: page.TotalPages,
	})
}

func parseListOptions(r *http.Request) (post.ListOptions, error) {
	var opts post.ListOptions
	q := r.URL.Query()

	var err error
	if opts.Page, err = queryInt(q.Get("page"), 1); err != nil {
		return opts, apperr.Validation("page must be a number")
	}
	if opts.Limit, err = queryInt(q.Get("limit"), post.DefaultLimit); err != nil {
		return opts, apperr.Validation("limit must be a number")
	}

	opts.Search = q.Get("search")

	if raw := q.Get("authorId"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return opts, apperr.Validation("authorId must be a number")
		}
		opts.AuthorID = uint(id)
	}

	return opts, nil
}

func queryInt(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

// Get - GET /posts/{id}
func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.Error(w, r, err)
		return
	}

	p, err := h.posts.GetPostById(r.Context(), id)
	if err != nil {
		h.Error(w, r, err)
		return
	}

	h.JSON(w, http.StatusOK, toPostDTO(p))
}

// Create - POST /posts
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req postRequest
	if err := decodeJSON(r, &req); err != nil {
		h.Error(w, r, err)
		return
	}
	if err := req.validate(); err != nil {
		h.Error(w, r, err)
		return
	}

	p, err := h.posts.CreatePost(r.Context(), post.CreatePostInput{
		Title:         req.Title,
		Content:       req.Content,
		ImageURL:      req.ImageURL,
		ImagePublicID: req.ImagePublicID,
	})
	if err != nil {
		h.Error(w, r, err)
		return
	}

	h.JSON(w, http.StatusCreated, idResponse{ID: p.ID})
}

// Update - PUT /posts/{id}, только для автора
func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.Error(w, r, err)
		return
	}

	var req postRequest
	if err := decodeJSON(r, &req); err != nil {
		h.Error(w, r, err)
		return
	}
	if err := req.validate(); err != nil {
		h.Error(w, r, err)
		return
	}

	if err := h.checkOwnership(w, r, guard.KindPost, id); err != nil {
		return
	}

	err = h.posts.UpdatePost(r.Context(), id, post.UpdatePostInput{
		Title:         req.Title,
		Content:       req.Content,
		ImageURL:      req.ImageURL,
		ImagePublicID: req.ImagePublicID,
	})
	if err != nil {
		h.Error(w, r, err)
		return
	}

	h.JSON(w, http.StatusOK, messageResponse{Message: "post updated"})
}

// Delete - DELETE /posts/{id}, только для автора
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.Error(w, r, err)
		return
	}

	if err := h.checkOwnership(w, r, guard.KindPost, id); err != nil {
		return
	}

	if err := h.posts.DeletePostById(r.Context(), id); err != nil {
		h.Error(w, r, err)
		return
	}

	h.JSON(w, http.StatusOK, messageResponse{Message: "post deleted"})
}

// checkOwnership пишет ответ сам и возвращает ошибку только как сигнал прерывания
func (h *PostHandler) checkOwnership(w http.ResponseWriter, r *http.Request, kind guard.Kind, id uint) error {
	userID, err := auth.GetUserIDFromContext(r.Context())
	if err != nil {
		err = apperr.Unauthorized("missing or invalid token")
		h.Error(w, r, err)
		return err
	}

	if err := h.guard.Check(r.Context(), userID, kind, id); err != nil {
		h.Error(w, r, err)
		return err
	}

	return nil
}

func pathID(r *http.Request) (uint, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, apperr.Validation("id must be a number")
	}
	return uint(id), nil
}
