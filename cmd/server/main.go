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

	"github.com/VitaminP8/blogpost/internal/auth"
	"github.com/VitaminP8/blogpost/internal/blog"
	"github.com/VitaminP8/blogpost/internal/comment"
	"github.com/VitaminP8/blogpost/internal/config"
	"github.com/VitaminP8/blogpost/internal/mail"
	"github.com/VitaminP8/blogpost/internal/post"
	"github.com/VitaminP8/blogpost/internal/storage/memory"
	"github.com/VitaminP8/blogpost/internal/storage/postgres"
	"github.com/VitaminP8/blogpost/internal/subscription"
	"github.com/VitaminP8/blogpost/internal/user"
	"github.com/VitaminP8/blogpost/internal/web"
	"github.com/sirupsen/logrus"
)

func main() {
	storageType := flag.String("storage", "memory", "Тип хранилища: memory, postgres или sqlite")
	ssl := flag.Bool("ssl", false, "Приложение само терминирует TLS (включает HSTS и редирект на https)")
	flag.Parse()

	// загружаем .env из нашего config.go
	config.LoadEnv()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	setupLogging(cfg)

	var postStore post.PostStorage
	var commentStore comment.CommentStorage
	var userStore user.UserStorage

	switch *storageType {
	case "postgres", "sqlite":
		dialect := "postgres"
		if *storageType == "sqlite" {
			dialect = "sqlite3"
		}
		if cfg.DBURI == "" {
			logrus.Fatal("DB_URI must be set for SQL storage")
		}
		if err := postgres.InitDB(dialect, cfg.DBURI); err != nil {
			logrus.Fatalf("Failed to initialize database: %v", err)
		}
		if err := postgres.Migrate(postgres.GetDB()); err != nil {
			logrus.Fatalf("Failed to migrate database: %v", err)
		}

		logrus.WithField("dialect", dialect).Info("Using SQL storage")
		postStore = postgres.NewPostPostgresStorage()
		commentStore = postgres.NewCommentPostgresStorage()
		userStore = postgres.NewUserPostgresStorage()

	case "memory":
		logrus.Info("Using in-memory storage")
		posts := memory.NewPostMemoryStorage()
		postStore = posts
		commentStore = memory.NewCommentMemoryStorage(posts)
		userStore = memory.NewUserMemoryStorage()

	default:
		logrus.Fatalf("Unknown storage type: %s", *storageType)
	}

	sessions, err := auth.NewSessionManager(cfg.SessionSecret, cfg.SessionTTL)
	if err != nil {
		logrus.Fatalf("Failed to create session manager: %v", err)
	}

	var notifier mail.Notifier = mail.LogNotifier{}
	if cfg.MailEnabled() {
		notifier = mail.NewSMTPNotifier(cfg.SMTPHost, cfg.SMTPPort, cfg.MailUser, cfg.MailPassword, cfg.MailTo)
		logrus.WithField("smtp_host", cfg.SMTPHost).Info("Contact messages are sent by email")
	} else {
		logrus.Warn("SMTP is not configured, contact messages are only logged")
	}

	feed := subscription.NewSubscriptionManager()
	svc := blog.NewService(userStore, postStore, commentStore)
	svc.UseCommentFeed(feed)

	srv, err := web.NewServer(svc, userStore, sessions, notifier, web.Options{
		Production: cfg.AppEnv == "production",
		SSL:        *ssl,
		Feed:       feed,
	})
	if err != nil {
		logrus.Fatalf("Failed to create web server: %v", err)
	}

	server := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
	}
	server.RegisterOnShutdown(srv.CloseLiveFeeds)

	// ListenAndServe блокирует до Shutdown, поэтому запускаем в goroutine
	go func() {
		logrus.WithField("addr", cfg.ServerAddr).Info("Server started")
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("Server error: %v", err)
		}
	}()

	// Ожидание SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logrus.Errorf("Error during server shutdown: %v", err)
	}

	if err := postgres.CloseDB(); err != nil {
		logrus.Errorf("Error closing database: %v", err)
	}

	logrus.Info("Server stopped gracefully")
}

func setupLogging(cfg *config.Config) {
	if cfg.AppEnv == "production" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}
