package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/widyatama/go-account-api/config"
	"github.com/widyatama/go-account-api/internal/application"
	pginfra "github.com/widyatama/go-account-api/internal/infrastructure/postgres"
	"github.com/widyatama/go-account-api/internal/interface/middleware"
	"github.com/widyatama/go-account-api/internal/router"
	"github.com/widyatama/go-account-api/pkg/logger"
	"github.com/widyatama/go-account-api/pkg/mailer"
	"github.com/widyatama/go-account-api/pkg/queue"
	"github.com/widyatama/go-account-api/pkg/search"
	"github.com/widyatama/go-account-api/pkg/storage"
	"github.com/widyatama/go-account-api/pkg/token"
	"github.com/widyatama/go-account-api/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	lg := logger.New(cfg.AppName, cfg.Env)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	if err := runMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, lg); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer func() { _ = rdb.Close() }()

	tokens := token.NewManager(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.AccessTTL, cfg.RefreshTTL)

	// Notification dispatch goes through RabbitMQ; the email worker
	// drains the queue and talks to Mailgun.
	pub, err := queue.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
	if err != nil {
		log.Fatalf("failed to connect to rabbitmq: %v", err)
	}
	defer pub.Close()

	links := mailer.Links{
		CompanyName:    cfg.CompanyName,
		SupportURL:     cfg.SupportURL,
		VerifyEmailURL: cfg.VerifyEmailURL,
		ResetURL:       cfg.ResetURL,
	}
	notifier := mailer.NewQueueNotifier(pub, links, cfg.MailSendEnabled)

	// Search and avatar storage are optional collaborators; the
	// service tolerates nil for both.
	var indexer application.AccountIndexer
	if addrs := cfg.ESAddrs(); len(addrs) > 0 {
		es, err := search.NewESClient(addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err != nil {
			lg.WithError(err).Warn("elasticsearch unavailable, account search disabled")
		} else {
			indexer = search.NewAccounts(es, cfg.ESAccountsIndex)
		}
	}

	var avatars application.AvatarStorage
	if cfg.GCSBucket != "" {
		gcsClient, err := storage.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			log.Fatalf("failed to init GCS client: %v", err)
		}
		defer func() { _ = gcsClient.Close() }()
		avatars = storage.NewAvatars(gcsClient, cfg.GCSBucket)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RealIP())
	corsCfg := cors.Config{
		AllowOrigins:     cfg.CORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	r.Use(cors.New(corsCfg))
	if cfg.HTTPLogEnabled {
		r.Use(gin.Logger())
	}

	reg := router.NewRegistry(r)
	router.InitModules(reg, router.Deps{
		Cfg:      cfg,
		Logger:   lg,
		Pool:     pool,
		Redis:    rdb,
		Tokens:   tokens,
		Notifier: notifier,
		Indexer:  indexer,
		Storage:  avatars,
	})
	reg.RegisterAll()

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		lg.Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	lg.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		lg.Fatalf("server forced to shutdown: %v", err)
	}
	lg.Info("server exited properly")
}

func runMigrations(dsn string, migrationsDir string, lg *logrus.Logger) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	driver, err := pgmigrate.WithInstance(db, &pgmigrate.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithDatabaseInstance(fmt.Sprintf("file://%s", migrationsDir), "postgres", driver)
	if err != nil {
		return err
	}
	lg.Info("running migrations...")
	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		lg.Info("no migrations to run")
		return nil
	}
	return err
}
