package httpapi

import (
	"net/http"

	"github.com/VitaminP8/blogery/internal/auth"
	"github.com/VitaminP8/blogery/internal/comment"
	"github.com/VitaminP8/blogery/internal/guard"
	"github.com/VitaminP8/blogery/internal/post"
	"github.com/VitaminP8/blogery/internal/subscription"
	"github.com/VitaminP8/blogery/internal/upload"
	"github.com/VitaminP8/blogery/internal/user"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Config - все зависимости HTTP слоя, собираются в main и передаются явно
type Config struct {
	Users    user.UserStorage
	Posts    post.PostStorage
	Comments comment.CommentStorage
	Guard    *guard.Guard
	Manager  subscription.Manager
	Uploads  *upload.LocalStore
	Tokens   *auth.TokenManager
	Log      *logrus.Logger
	Registry *prometheus.Registry
	Dev      bool

	LoginRPS   int
	LoginBurst int
}

func NewRouter(cfg Config) *mux.Router {
	rp := &responder{log: cfg.Log, dev: cfg.Dev}

	authHandler := &AuthHandler{responder: rp, users: cfg.Users}
	postHandler := &PostHandler{responder: rp, posts: cfg.Posts, guard: cfg.Guard}
	commentHandler := &CommentHandler{
		responder: rp,
		comments:  cfg.Comments,
		posts:     cfg.Posts,
		guard:     cfg.Guard,
		manager:   cfg.Manager,
	}

	r := mux.NewRouter()
	r.Use(requestLogger(cfg.Log))

	registry := cfg.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	metrics := newHTTPMetrics(registry)
	r.Use(metrics.middleware)

	// извлечение userID из Bearer токена (мягкое: без токена запрос идет дальше)
	r.Use(cfg.Tokens.Middleware)

	loginLimiter := newRateLimiter(cfg.LoginRPS, cfg.LoginBurst)

	r.HandleFunc("/auth/register", authHandler.Register).Methods(http.MethodPost)
	r.HandleFunc("/auth/login", loginLimiter.handler(rp, authHandler.Login)).Methods(http.MethodPost)
	r.HandleFunc("/auth/profile", rp.requireAuth(authHandler.Profile)).Methods(http.MethodGet)
	r.HandleFunc("/auth/profile", rp.requireAuth(authHandler.UpdateProfile)).Methods(http.MethodPut)

	r.HandleFunc("/posts", postHandler.List).Methods(http.MethodGet)
	r.HandleFunc("/posts", rp.requireAuth(postHandler.Create)).Methods(http.MethodPost)
	r.HandleFunc("/posts/{id}", postHandler.Get).Methods(http.MethodGet)
	r.HandleFunc("/posts/{id}", rp.requireAuth(postHandler.Update)).Methods(http.MethodPut)
	r.HandleFunc("/posts/{id}", rp.requireAuth(postHandler.Delete)).Methods(http.MethodDelete)

	r.HandleFunc("/posts/{id}/comments", commentHandler.ListByPost).Methods(http.MethodGet)
	r.HandleFunc("/posts/{id}/comments/stream", commentHandler.Stream).Methods(http.MethodGet)
	r.HandleFunc("/comments", rp.requireAuth(commentHandler.Create)).Methods(http.MethodPost)
	r.HandleFunc("/comments/{id}", rp.requireAuth(commentHandler.Delete)).Methods(http.MethodDelete)

	if cfg.Uploads != nil {
		uploadHandler := &UploadHandler{responder: rp, store: cfg.Uploads}
		r.HandleFunc("/upload/image", rp.requireAuth(uploadHandler.Image)).Methods(http.MethodPost)
		r.PathPrefix("/uploads/").Handler(
			http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.Uploads.Dir()))))
	}

	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		rp.JSON(w, http.StatusOK, messageResponse{Message: "ok"})
	}).Methods(http.MethodGet)

	return r
}
