package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"practice_sale/pkg/core/config"
	"practice_sale/pkg/core/pipeline"
	"practice_sale/pkg/core/store"
)

func main() {
	configPath := flag.String("config", "config/rules.yaml", "path to the business rules file")
	useDB := flag.Bool("db", false, "record the run in the database (requires DATABASE_URL)")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		// Not an error: production runs set the environment directly.
		slog.Debug(".env file not found")
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(log)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("configuration load failed", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	if *useDB {
		if err := store.InitDB(ctx); err != nil {
			log.Error("database init failed", "error", err)
			os.Exit(1)
		}
		defer store.Close()
	}

	orchestrator, err := pipeline.NewOrchestrator(cfg, log)
	if err != nil {
		log.Error("orchestrator setup failed", "error", err)
		os.Exit(1)
	}

	result, err := orchestrator.Run(ctx)
	if err != nil {
		log.Error("pipeline run failed", "error", err)
		os.Exit(1)
	}

	fmt.Printf("Run %s complete in %v\n", result.RunID, result.Duration)
	fmt.Printf("  validation: %d errors, %d warnings\n", result.Validation.ErrorCount, result.Validation.WarningCount)
	fmt.Printf("  readiness:  %.1f/100 (%s)\n",
		result.Coverage.DueDiligence.OverallScore, result.Coverage.DueDiligence.ReadinessLevel)
	for _, artifact := range result.Artifacts {
		fmt.Printf("  wrote %s\n", artifact)
	}

	if !result.Validation.Passed || result.SchemaSummary.InvalidFiles > 0 {
		os.Exit(1)
	}
}
