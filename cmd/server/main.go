package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jinzhu/gorm"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/VitaminP8/blogery/internal/auth"
	"github.com/VitaminP8/blogery/internal/comment"
	"github.com/VitaminP8/blogery/internal/config"
	"github.com/VitaminP8/blogery/internal/guard"
	"github.com/VitaminP8/blogery/internal/httpapi"
	"github.com/VitaminP8/blogery/internal/post"
	"github.com/VitaminP8/blogery/internal/storage/memory"
	"github.com/VitaminP8/blogery/internal/storage/postgres"
	"github.com/VitaminP8/blogery/internal/subscription"
	"github.com/VitaminP8/blogery/internal/upload"
	"github.com/VitaminP8/blogery/internal/user"
)

func main() {
	storageType := flag.String("storage", "memory", "Тип хранилища: memory или postgres")
	flag.Parse()

	// загружаем .env из нашего config.go
	config.LoadEnv()
	cfg := config.Load()

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	if cfg.IsDevelopment() {
		log.SetLevel(logrus.DebugLevel)
	}

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	manager := subscription.NewSubscriptionManager()

	var postStore post.PostStorage
	var commentStore comment.CommentStorage
	var userStore user.UserStorage
	var db *gorm.DB

	switch *storageType {
	case "postgres":
		var err error
		db, err = postgres.Open(config.LoadPostgres())
		if err != nil {
			log.Fatalf("failed to connect to database: %v", err)
		}
		if err := postgres.Migrate(db); err != nil {
			log.Fatalf("failed to migrate database: %v", err)
		}

		log.Println("Используется PostgreSQL хранилище")
		postStore = postgres.NewPostPostgresStorage(db)
		commentStore = postgres.NewCommentPostgresStorage(db, manager)
		userStore = postgres.NewUserPostgresStorage(db, tokens)

	case "memory":
		log.Println("Используется in-memory хранилище")
		posts := memory.NewPostMemoryStorage()
		postStore = posts
		commentStore = memory.NewCommentMemoryStorage(posts, manager)
		userStore = memory.NewUserMemoryStorage(tokens)

	default:
		log.Fatalf("неизвестный тип хранилища: %s", *storageType)
	}

	uploads, err := upload.NewLocalStore(cfg.UploadDir, cfg.UploadBaseURL)
	if err != nil {
		log.Fatalf("failed to init upload store: %v", err)
	}

	router := httpapi.NewRouter(httpapi.Config{
		Users:      userStore,
		Posts:      postStore,
		Comments:   commentStore,
		Guard:      guard.New(postStore, commentStore),
		Manager:    manager,
		Uploads:    uploads,
		Tokens:     tokens,
		Log:        log,
		Registry:   prometheus.NewRegistry(),
		Dev:        cfg.IsDevelopment(),
		LoginRPS:   cfg.LoginRPS,
		LoginBurst: cfg.LoginBurst,
	})

	// HTTP сервер
	server := &http.Server{
		Addr:    cfg.Addr,
		Handler: router,
	}

	// запуск HTTP сервера
	go func() {
		log.Printf("Сервер запущен на http://localhost%s/", cfg.Addr)
		// строка не возвращается (блокирует поток) пока не выполнится server.Shutdown() или не произойдет фатальная ошибка
		// Поэтому запускаем goroutine
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Ошибка сервера: %v", err)
		}
	}()

	// Ожидание SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit // ждет сигнал

	log.Println("Завершение...")

	if db != nil {
		if err := postgres.Close(db); err != nil {
			log.Printf("Ошибка при закрытии базы данных: %v", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Ошибка при завершении сервера: %v", err)
	}

	log.Println("Сервер остановлен корректно")
}
