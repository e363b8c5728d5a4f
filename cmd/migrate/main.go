package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"go.uber.org/zap"

	"github.com/noah-isme/campus-assistant-api/pkg/config"
	"github.com/noah-isme/campus-assistant-api/pkg/database"
	"github.com/noah-isme/campus-assistant-api/pkg/logger"
)

func main() {
	var migrationsPath string
	flag.StringVar(&migrationsPath, "path", "", "migrations directory (default: MIGRATIONS_PATH)")
	flag.Usage = printUsage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
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

	if migrationsPath == "" {
		migrationsPath = cfg.Migrations.Path
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}

	migrator, err := database.NewMigrator(db, migrationsPath, logr)
	if err != nil {
		_ = db.Close()
		logr.Fatal("failed to create migrator", zap.Error(err))
	}
	defer migrator.Close() //nolint:errcheck

	switch args[0] {
	case "up":
		err = migrator.Up()
	case "down":
		steps := 1
		if len(args) > 1 {
			if args[1] == "all" {
				steps = 0
			} else if steps, err = strconv.Atoi(args[1]); err != nil || steps < 1 {
				logr.Fatal("invalid step count", zap.String("value", args[1]))
			}
		}
		err = migrator.Down(steps)
	case "version":
		version, dirty, verr := migrator.Version()
		if verr != nil {
			logr.Fatal("failed to read version", zap.Error(verr))
		}
		logr.Info("schema version", zap.Uint("version", version), zap.Bool("dirty", dirty))
	default:
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		logr.Fatal("migration failed", zap.String("command", args[0]), zap.Error(err))
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage: migrate [-path dir] <command>

Commands:
  up            apply all pending migrations
  down [n|all]  roll back n migrations (default 1)
  version       print the current schema version
`)
}
