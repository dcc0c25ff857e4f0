package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "github.com/noah-isme/slms-api/api/swagger"
	"github.com/noah-isme/slms-api/internal/handler"
	"github.com/noah-isme/slms-api/internal/repository"
	"github.com/noah-isme/slms-api/internal/router"
	"github.com/noah-isme/slms-api/internal/service"
	"github.com/noah-isme/slms-api/pkg/cache"
	"github.com/noah-isme/slms-api/pkg/config"
	"github.com/noah-isme/slms-api/pkg/database"
	"github.com/noah-isme/slms-api/pkg/export"
	"github.com/noah-isme/slms-api/pkg/logger"
	"github.com/noah-isme/slms-api/pkg/storage"
)

// @title SLMS API
// @version 1.0.0
// @description Student lifecycle management: admissions, students, attendance, stipends and alumni.
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close() //nolint:errcheck

	if cfg.Database.AutoMigrate {
		if err := database.RunMigrations(db.DB, logr); err != nil {
			logr.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	metrics := service.NewMetricsService()

	checks := map[string]handler.Pinger{"postgres": handler.PingFunc(db.PingContext)}

	var cacheRepo service.CacheRepository
	if cfg.Cache.Enabled {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, stipend cache disabled", zap.Error(err))
		} else {
			defer client.Close() //nolint:errcheck
			redisRepo := repository.NewCacheRepository(client, logr)
			checks["redis"] = redisRepo
			cacheRepo = redisRepo
		}
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Cache.StipendTTL, logr, cacheRepo != nil)

	audit := service.NewAuditDispatcher(repository.NewAuditRepository(db), cfg.Jobs, logr)
	audit.Start(context.Background())
	defer audit.Stop()

	files, err := storage.NewLocalStorage(cfg.Documents.StorageDir)
	if err != nil {
		logr.Fatal("failed to prepare document storage", zap.Error(err))
	}
	signer := storage.NewSignedURLSigner(cfg.Documents.SignedURLSecret, cfg.Documents.SignedURLTTL)

	tx := repository.NewTxManager(db)
	userRepo := repository.NewUserRepository(db)
	departmentRepo := repository.NewDepartmentRepository(db)
	admissionRepo := repository.NewAdmissionRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	alumniRepo := repository.NewAlumniRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	routineRepo := repository.NewRoutineRepository(db)
	stipendRepo := repository.NewStipendRepository(db)
	correctionRepo := repository.NewCorrectionRepository(db)
	marksRepo := repository.NewMarksRepository(db)

	admissionSvc := service.NewAdmissionService(tx, admissionRepo, userRepo, departmentRepo, studentRepo, audit, service.AdmissionConfig{
		ApplicationIDPrefix:   cfg.Admissions.ApplicationIDPrefix,
		RollNumberMaxAttempts: cfg.Admissions.RollNumberMaxAttempts,
	}, logr, service.WithAdmissionCache(cacheSvc), service.WithAdmissionMetrics(metrics))
	documentSvc := service.NewDocumentService(admissionRepo, admissionSvc, files, signer, service.DocumentConfig{
		MaxFileSizeBytes: cfg.Documents.MaxFileSizeBytes,
		AllowedMIMEs:     cfg.Documents.AllowedMIMEs,
		DownloadPath:     cfg.APIPrefix + "/documents/download",
	}, logr)
	studentSvc := service.NewStudentService(tx, studentRepo, alumniRepo, attendanceRepo, stipendRepo, audit, logr,
		service.WithStudentCache(cacheSvc), service.WithStudentMetrics(metrics))
	alumniSvc := service.NewAlumniService(tx, alumniRepo, studentRepo, audit, logr, service.WithAlumniMetrics(metrics))
	attendanceSvc := service.NewAttendanceService(tx, attendanceRepo, routineRepo, studentRepo, audit, logr, service.WithAttendanceMetrics(metrics))
	stipendSvc := service.NewStipendService(tx, stipendRepo, studentRepo, audit, logr,
		service.WithStipendCache(cacheSvc, cfg.Cache.StipendTTL),
		service.WithStipendMetrics(metrics),
		service.WithStipendRenderer(export.NewPDFExporter()))
	correctionSvc := service.NewCorrectionService(tx, correctionRepo, studentRepo, audit, logr,
		service.WithCorrectionCache(cacheSvc), service.WithCorrectionMetrics(metrics))

	handlers := router.Handlers{
		Admissions:  handler.NewAdmissionHandler(admissionSvc, documentSvc),
		Students:    handler.NewStudentHandler(studentSvc),
		Alumni:      handler.NewAlumniHandler(alumniSvc),
		Attendance:  handler.NewAttendanceHandler(attendanceSvc),
		Routines:    handler.NewRoutineHandler(service.NewRoutineService(routineRepo, departmentRepo, logr)),
		Marks:       handler.NewMarksHandler(service.NewMarksService(marksRepo, studentRepo, logr)),
		Stipends:    handler.NewStipendHandler(stipendSvc),
		Corrections: handler.NewCorrectionHandler(correctionSvc),
		Departments: handler.NewDepartmentHandler(service.NewDepartmentService(departmentRepo, logr)),
		Users:       handler.NewUserHandler(service.NewUserService(userRepo, logr)),
		System:      handler.NewSystemHandler(metrics, checks),
	}
	engine := router.Setup(cfg, handlers, service.NewAuthService(cfg.JWT), metrics, logr)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
