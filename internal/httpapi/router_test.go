package httpapi

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/VitaminP8/blogery/internal/auth"
	"github.com/VitaminP8/blogery/internal/guard"
	"github.com/VitaminP8/blogery/internal/storage/memory"
	"github.com/VitaminP8/blogery/internal/subscription"
	"github.com/VitaminP8/blogery/internal/upload"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

// testAPI - полный HTTP стек поверх in-memory хранилища
type testAPI struct {
	router *mux.Router
	posts  *memory.PostMemoryStorage
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	tokens := auth.NewTokenManager("test-secret", time.Hour)
	manager := subscription.NewSubscriptionManager()

	posts := memory.NewPostMemoryStorage()
	comments := memory.NewCommentMemoryStorage(posts, manager)
	users := memory.NewUserMemoryStorage(tokens)

	uploads, err := upload.NewLocalStore(t.TempDir(), "/uploads")
	require.NoError(t, err)

	log := logrus.New()
	log.SetOutput(io.Discard)

	router := NewRouter(Config{
		Users:      users,
		Posts:      posts,
		Comments:   comments,
		Guard:      guard.New(posts, comments),
		Manager:    manager,
		Uploads:    uploads,
		Tokens:     tokens,
		Log:        log,
		Registry:   prometheus.NewRegistry(),
		LoginRPS:   1000,
		LoginBurst: 1000,
	})

	return &testAPI{router: router, posts: posts}
}

// do выполняет JSON запрос против роутера
func (a *testAPI) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

// register создает пользователя и возвращает его id
func (a *testAPI) register(t *testing.T, name, email, password string) uint {
	t.Helper()

	rec := a.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"email":    email,
		"password": password,
		"name":     name,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp registerResponse
	decodeBody(t, rec, &resp)
	return resp.ID
}

// login возвращает accessToken
func (a *testAPI) login(t *testing.T, email, password string) string {
	t.Helper()

	rec := a.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp loginResponse
	decodeBody(t, rec, &resp)
	return resp.AccessToken
}

func (a *testAPI) createPost(t *testing.T, token, title, content string) uint {
	t.Helper()

	rec := a.do(t, http.MethodPost, "/posts", token, map[string]string{
		"title":   title,
		"content": content,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp idResponse
	decodeBody(t, rec, &resp)
	return resp.ID
}
