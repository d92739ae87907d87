package main

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron"

	config "github.com/quangdng/preschool-cms/configs"
	"github.com/quangdng/preschool-cms/internal/api/handlers"
	"github.com/quangdng/preschool-cms/internal/api/middleware"
	"github.com/quangdng/preschool-cms/internal/apperr"
	"github.com/quangdng/preschool-cms/internal/facebook"
	job "github.com/quangdng/preschool-cms/internal/jobs"
	"github.com/quangdng/preschool-cms/internal/repository"
	"github.com/quangdng/preschool-cms/internal/service"
	"github.com/quangdng/preschool-cms/internal/storage"
	"github.com/quangdng/preschool-cms/migrations"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg := config.LoadConfig()

	db, err := sql.Open("postgres", cfg.PostgresURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer closeDB(db)

	if err := db.Ping(); err != nil {
		log.Fatalf("Database is unreachable: %v", err)
	}

	if cfg.RunMigrations {
		if err := runMigrations(cfg.PostgresURI); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Minute,
		WriteTimeout: 10 * time.Minute,
		BodyLimit:    512 * 1024 * 1024, // room for video uploads
		ErrorHandler: apperr.Handler,
	})

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOriginsFunc: func(origin string) bool {
			return true
		},
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           3600,
	}))

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	revisionRepo := repository.NewPostRevisionRepository(db)
	postAssetRepo := repository.NewPostAssetRepository(db)
	assetRepo := repository.NewAssetRepository(db)
	blockRepo := repository.NewBlockRepository(db)
	fbLogRepo := repository.NewFacebookLogRepository(db)
	albumRepo := repository.NewAlbumRepository(db)
	embedRepo := repository.NewVideoEmbedRepository(db)
	contactRepo := repository.NewContactRepository(db)
	pushRepo := repository.NewPushRepository(db)

	var store storage.Storage
	if cfg.StorageBackend == "r2" {
		store = storage.NewR2Storage(cfg.R2)
	} else {
		store = storage.NewLocalStorage(cfg.UploadDir)
	}

	fbClient := facebook.NewClient(cfg.Facebook.APIVersion)
	tokenManager := facebook.NewTokenManager(fbClient, userRepo, cfg.Facebook, []byte(cfg.SecretKey))
	publisher := facebook.NewPublisher(fbClient, cfg.UploadDir, cfg.FrontendURL)

	authService := service.NewAuthService(cfg, userRepo, tokenManager)
	assetService := service.NewAssetService(assetRepo, store)
	newsService := service.NewNewsService(db, postRepo, revisionRepo, postAssetRepo,
		fbLogRepo, userRepo, blockRepo, assetService, publisher, tokenManager)
	announcementService := service.NewAnnouncementService(db, postRepo, revisionRepo, postAssetRepo,
		fbLogRepo, userRepo, blockRepo, assetService, publisher, tokenManager)
	albumService := service.NewAlbumService(db, albumRepo, embedRepo, assetService, assetRepo)
	contactService := service.NewContactService(contactRepo)
	pushService := service.NewPushService(cfg.Push, pushRepo)
	youtubeService := service.NewYoutubeService(authService, assetService, cfg.UploadDir)

	authMiddleware := middleware.NewAuthMiddleware(cfg)
	loginLimiter := middleware.NewRateLimiter(10, 5*time.Minute)
	contactLimiter := middleware.NewRateLimiter(5, 10*time.Minute)

	health := handlers.NewHealthHandler(db)
	app.Get("/health", health.Check)

	if cfg.StorageBackend == "local" {
		app.Static("/uploads", cfg.UploadDir)
	}

	auth := handlers.NewAuthHandler(authService, cfg)
	app.Post("/auth/google/login", loginLimiter.Handler(), auth.GoogleLogin)
	app.Post("/auth/refresh", auth.Refresh)
	app.Post("/auth/logout", auth.Logout)

	news := handlers.NewNewsHandler(newsService, assetService)
	app.Get("/news", news.ListPublished)
	app.Get("/news/:slug", news.GetPublished)

	announcements := handlers.NewAnnouncementHandler(announcementService, assetService)
	app.Get("/announcements", announcements.ListPublished)
	app.Get("/announcements/:slug", announcements.GetPublished)

	albums := handlers.NewAlbumHandler(albumService, assetService)
	app.Get("/albums", albums.List)
	app.Get("/albums/:slug", albums.GetBySlug)

	contact := handlers.NewContactHandler(contactService)
	app.Post("/contact", contactLimiter.Handler(), contact.Submit)

	push := handlers.NewPushHandler(pushService, announcementService)
	app.Post("/push/subscribe", push.Subscribe)
	app.Post("/push/unsubscribe", push.Unsubscribe)

	admin := app.Group("/admin")
	admin.Use(authMiddleware.RequireAuth())

	admin.Get("/auth/token-status", auth.TokenStatus)
	admin.Post("/auth/facebook/link", auth.LinkFacebook)

	admin.Post("/news", news.Create)
	admin.Get("/news", news.List)
	admin.Get("/news/check-slug", news.CheckSlug)
	admin.Get("/news/:id", news.Get)
	admin.Put("/news/:id", news.Update)
	admin.Delete("/news/:id", news.Remove)

	admin.Post("/announcements", announcements.Create)
	admin.Get("/announcements", announcements.List)
	admin.Get("/announcements/check-slug", announcements.CheckSlug)
	admin.Get("/announcements/:id", announcements.Get)
	admin.Put("/announcements/:id", announcements.Update)
	admin.Delete("/announcements/:id", announcements.Remove)

	assets := handlers.NewAssetHandler(assetService)
	admin.Post("/assets", assets.Upload)
	admin.Get("/assets", assets.List)
	admin.Get("/assets/:id", assets.Get)

	admin.Post("/albums", albums.Create)
	admin.Get("/albums", albums.List)
	admin.Get("/albums/:id", albums.Get)
	admin.Put("/albums/:id", albums.Update)
	admin.Delete("/albums/:id", albums.Remove)
	admin.Post("/video-embeds", albums.CreateEmbed)
	admin.Get("/video-embeds", albums.ListEmbeds)

	admin.Get("/contact-messages", contact.List)
	admin.Put("/contact-messages/:id", contact.UpdateStatus)
	admin.Delete("/contact-messages/:id", contact.Remove)

	admin.Post("/push/announcements/:slug", push.NotifyAnnouncement)

	youtube := handlers.NewYoutubeHandler(youtubeService)
	admin.Post("/youtube/uploads", youtube.Upload)

	// cron jobs
	refreshTokenJob := job.NewTokenRefreshJob(userRepo, tokenManager)

	c := cron.New()
	c.AddFunc("@every 00h30m00s", refreshTokenJob.RefreshTokens)
	c.Start()

	go func() {
		if err := app.Listen(cfg.ListenAddr); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Printf("Server is running on %s", cfg.ListenAddr)

	gracefulShutdown(app, db)
}

func runMigrations(postgresURI string) error {
	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return err
	}

	m, err := migrate.NewWithSourceInstance("iofs", src, postgresURI)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

func closeDB(db *sql.DB) {
	fmt.Fprint(os.Stdout, "Closing database connection... ")
	if err := db.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close database: %v", err)
		return
	}
	fmt.Fprintln(os.Stdout, "Done")
}

func gracefulShutdown(app *fiber.App, db *sql.DB) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Fatalf("Failed to shut down server: %v", err)
	}

	log.Println("Server shutdown complete.")
}
