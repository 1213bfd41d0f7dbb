package httpapi

import (
	"net/http"
	"strings"

	"github.com/VitaminP8/blogery/internal/apperr"
	"github.com/VitaminP8/blogery/internal/auth"
	"github.com/VitaminP8/blogery/internal/user"
)

type AuthHandler struct {
	*responder
	users user.UserStorage
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type registerResponse struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		h.Error(w, r, err)
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		h.Error(w, r, apperr.Validation("a valid email is required"))
		return
	}
	if req.Name == "" {
		h.Error(w, r, apperr.Validation("name is required"))
		return
	}
	if len(req.Password) < 6 {
		h.Error(w, r, apperr.Validation("password must be at least 6 characters"))
		return
	}

	u, err := h.users.RegisterUser(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		h.Error(w, r, err)
		return
	}

	h.JSON(w, http.StatusCreated, registerResponse{ID: u.ID, Email: u.Email})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string  `json:"accessToken"`
	User        userDTO `json:"user"`
	Message     string  `json:"message"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		h.Error(w, r, err)
		return
	}

	if req.Email == "" || req.Password == "" {
		h.Error(w, r, apperr.Validation("email and password are required"))
		return
	}

	token, u, err := h.users.LoginUser(r.Context(), req.Email, req.Password)
	if err != nil {
		h.Error(w, r, err)
		return
	}

	h.JSON(w, http.StatusOK, loginResponse{
		AccessToken: token,
		User:        toUserDTO(u),
		Message:     "login successful",
	})
}

func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.GetUserIDFromContext(r.Context())
	if err != nil {
		h.Error(w, r, apperr.Unauthorized("missing or invalid token"))
		return
	}

	u, err := h.users.GetUserById(r.Context(), userID)
	if err != nil {
		h.Error(w, r, err)
		return
	}

	h.JSON(w, http.StatusOK, toUserDTO(u))
}

type updateProfileRequest struct {
	Name string `json:"name"`
}

func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.GetUserIDFromContext(r.Context())
	if err != nil {
		h.Error(w, r, apperr.Unauthorized("missing or invalid token"))
		return
	}

	var req updateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		h.Error(w, r, err)
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		h.Error(w, r, apperr.Validation("name is required"))
		return
	}

	if err := h.users.UpdateUsername(r.Context(), userID, req.Name); err != nil {
		h.Error(w, r, err)
		return
	}

	h.JSON(w, http.StatusOK, messageResponse{Message: "profile updated"})
}
