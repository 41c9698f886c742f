package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/HackGhosT04/sccs-library-db/api/swagger"
	"github.com/HackGhosT04/sccs-library-db/internal/handler"
	"github.com/HackGhosT04/sccs-library-db/internal/middleware"
	"github.com/HackGhosT04/sccs-library-db/internal/repository"
	"github.com/HackGhosT04/sccs-library-db/internal/service"
	"github.com/HackGhosT04/sccs-library-db/pkg/cache"
	"github.com/HackGhosT04/sccs-library-db/pkg/config"
	"github.com/HackGhosT04/sccs-library-db/pkg/database"
	"github.com/HackGhosT04/sccs-library-db/pkg/logger"
	corsmiddleware "github.com/HackGhosT04/sccs-library-db/pkg/middleware/cors"
	reqidmiddleware "github.com/HackGhosT04/sccs-library-db/pkg/middleware/requestid"
	"github.com/HackGhosT04/sccs-library-db/pkg/storage"
)

// @title SCCS Library API
// @version 1.0.0
// @description Campus library operations backend: catalog, circulation, study rooms and appointments.
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	rdb, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to redis", "error", err)
	}
	defer rdb.Close() //nolint:errcheck

	mediaStore, err := storage.NewLocalStorage(cfg.Media.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init media storage", "error", err)
	}

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	libraryRepo := repository.NewLibraryRepository(db)
	seatRepo := repository.NewSeatRepository(db)
	bookRepo := repository.NewBookRepository(db)
	circulationRepo := repository.NewCirculationRepository(db)
	appointmentRepo := repository.NewAppointmentRepository(db)
	studyRoomRepo := repository.NewStudyRoomRepository(db)
	announcementRepo := repository.NewAnnouncementRepository(db)
	requestRepo := repository.NewRequestRepository(db)

	verifier := service.NewJWTVerifier(cfg.Identity)
	identitySvc := service.NewIdentityService(userRepo, verifier, validate, logr)
	librarySvc := service.NewLibraryService(libraryRepo, seatRepo, validate, logr)
	catalogSvc := service.NewCatalogService(bookRepo, validate, logr)
	circulationSvc := service.NewCirculationService(circulationRepo, bookRepo, libraryRepo, cfg.Loans, cfg.Fees, validate, logr)
	appointmentSvc := service.NewAppointmentService(appointmentRepo, userRepo, libraryRepo, validate, logr)
	studyRoomSvc := service.NewStudyRoomService(studyRoomRepo, mediaStore, cfg.Media, validate, logr)
	bulletinSvc := service.NewBulletinService(announcementRepo, requestRepo, validate, logr)
	chatSvc := service.NewChatService(rdb, libraryRepo, cfg.Chat, validate, logr)
	reportSvc := service.NewReportService(circulationRepo, logr)
	metricsSvc := service.NewMetricsService()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "postgres": err.Error()})
			return
		}
		if err := rdb.Ping(c.Request.Context()).Err(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "redis": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.RegisterRoutes(r.Group(cfg.APIPrefix), handler.Handlers{
		Identity:     handler.NewIdentityHandler(identitySvc),
		Library:      handler.NewLibraryHandler(librarySvc),
		Catalog:      handler.NewCatalogHandler(catalogSvc),
		Circulation:  handler.NewCirculationHandler(circulationSvc),
		Appointments: handler.NewAppointmentHandler(appointmentSvc),
		StudyRooms:   handler.NewStudyRoomHandler(studyRoomSvc, cfg.Media),
		Bulletin:     handler.NewBulletinHandler(bulletinSvc),
		Chat:         handler.NewChatHandler(chatSvc),
		Reports:      handler.NewReportHandler(reportSvc),
	}, identitySvc)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
