package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/slms-api/internal/repository"
	"github.com/noah-isme/slms-api/internal/service"
	"github.com/noah-isme/slms-api/pkg/config"
	"github.com/noah-isme/slms-api/pkg/database"
	"github.com/noah-isme/slms-api/pkg/logger"
)

const usage = `usage: slms-admin [-timeout 2m] <command>

commands:
  migrate      apply pending database migrations
  fix-orphans  revert graduated students that have no alumni profile
`

func main() {
	var timeout time.Duration
	flag.DurationVar(&timeout, "timeout", 2*time.Minute, "overall command timeout")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close() //nolint:errcheck

	switch cmd := flag.Arg(0); cmd {
	case "migrate":
		if err := database.RunMigrations(db.DB, logr); err != nil {
			logr.Fatal("migration failed", zap.Error(err))
		}
	case "fix-orphans":
		students := service.NewStudentService(
			repository.NewTxManager(db),
			repository.NewStudentRepository(db),
			repository.NewAlumniRepository(db),
			repository.NewAttendanceRepository(db),
			repository.NewStipendRepository(db),
			repository.NewAuditRepository(db),
			logr,
		)
		result, err := students.ReconcileGraduates(ctx)
		if err != nil {
			logr.Fatal("fix-orphans failed", zap.Error(err))
		}
		for _, id := range result.Repaired {
			fmt.Println(id)
		}
		logr.Info("fix-orphans finished", zap.Int("repaired", len(result.Repaired)))
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", cmd)
		flag.Usage()
		os.Exit(2)
	}
}
