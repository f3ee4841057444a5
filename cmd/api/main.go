package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/adebimpe-ng/course-portal-api/internal/config"
	"github.com/adebimpe-ng/course-portal-api/internal/database"
	"github.com/adebimpe-ng/course-portal-api/internal/handler"
	"github.com/adebimpe-ng/course-portal-api/internal/middleware"
	"github.com/adebimpe-ng/course-portal-api/internal/models"
	"github.com/adebimpe-ng/course-portal-api/internal/repository"
	"github.com/adebimpe-ng/course-portal-api/internal/router"
	"github.com/adebimpe-ng/course-portal-api/internal/service"
	"github.com/adebimpe-ng/course-portal-api/pkg/filestore"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.AttendanceRecord{},
		&models.LectureContent{},
		&models.ClassworkSubmission{},
		&models.ClassworkWindow{},
		&models.SeminarSubmission{},
		&models.Question{},
		&models.ExamProgress{},
		&models.ExamResult{},
		&models.ExamSetting{},
		&models.AdminCredential{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = nats.Connect(cfg.NATSURL)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Close()
	}

	moduleStore, err := filestore.NewDisk(cfg.ModulesDir, logger)
	if err != nil {
		log.Fatalf("failed to create module store: %v", err)
	}

	// Seminar decks go to Cloudinary when credentials are configured,
	// otherwise to local disk next to the module PDFs.
	var seminarStore filestore.Uploader
	if cfg.CloudinaryCloudName != "" {
		seminarStore, err = filestore.NewCloudinary(filestore.CloudinaryConfig{
			CloudName: cfg.CloudinaryCloudName,
			APIKey:    cfg.CloudinaryAPIKey,
			APISecret: cfg.CloudinaryAPISecret,
			Folder:    cfg.CloudinaryUploadFolder,
		}, logger)
		if err != nil {
			log.Fatalf("failed to create cloudinary client: %v", err)
		}
	} else {
		seminarStore, err = filestore.NewDisk(cfg.SeminarDir, logger)
		if err != nil {
			log.Fatalf("failed to create seminar store: %v", err)
		}
	}

	validate := validator.New()

	attendanceRepo := repository.NewAttendanceRepository(db)
	lectureRepo := repository.NewLectureRepository(db)
	classworkSubmissionRepo := repository.NewClassworkSubmissionRepository(db)
	classworkWindowRepo := repository.NewClassworkWindowRepository(db)
	seminarRepo := repository.NewSeminarRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	examProgressRepo := repository.NewExamProgressRepository(db)
	examResultRepo := repository.NewExamResultRepository(db)
	examSettingRepo := repository.NewExamSettingRepository(db)
	credentialRepo := repository.NewCredentialRepository(db)

	events := service.NewEventPublisher(redisClient, natsConn, cfg.EventChannel, logger)

	attendanceService := service.NewAttendanceService(attendanceRepo, validate, events, logger)
	lectureService := service.NewLectureService(lectureRepo, attendanceRepo, moduleStore, service.DefaultOutline(), logger)
	classworkService := service.NewClassworkService(classworkWindowRepo, classworkSubmissionRepo, cfg.ClassworkWindow, validate, events, logger)
	seminarService := service.NewSeminarService(seminarRepo, seminarStore, cfg.SeminarOpenMonth, cfg.SeminarOpenDay, validate, events, logger)
	questionService := service.NewQuestionService(questionRepo, logger)
	examService := service.NewExamService(examProgressRepo, examResultRepo, questionRepo, examSettingRepo, cfg.ExamDuration, redisClient, cfg.StatsCacheTTL, validate, events, logger)
	authService := service.NewAuthService(credentialRepo, cfg.JWTSecret, cfg.TokenTTL, cfg.AdminUsername, cfg.AdminPassword, validate, logger)
	sessionService := service.NewSessionService(cfg.LectureDuration, cfg.ClassworkReveal, logger)

	ctx := context.Background()
	if err := lectureService.Seed(ctx); err != nil {
		log.Fatalf("failed to seed lecture outline: %v", err)
	}
	if err := authService.SeedCredential(ctx); err != nil {
		log.Fatalf("failed to seed admin credential: %v", err)
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
		BodyLimit:    32 * 1024 * 1024,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:       handler.NewAuthHandler(authService, logger),
		AttendanceHandler: handler.NewAttendanceHandler(attendanceService, logger),
		LectureHandler:    handler.NewLectureHandler(lectureService, classworkService, sessionService, logger),
		ClassworkHandler:  handler.NewClassworkHandler(classworkService, logger),
		SeminarHandler:    handler.NewSeminarHandler(seminarService, logger),
		ExamHandler:       handler.NewExamHandler(examService, questionService, logger),
		TimerHandler:      handler.NewTimerSocketHandler(examService, logger),
		JWTMiddleware:     middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
