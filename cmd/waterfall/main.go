package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alexanderramin/waterfall/internal/app"
	"github.com/alexanderramin/waterfall/internal/cli"
	"github.com/alexanderramin/waterfall/internal/config"
	"github.com/alexanderramin/waterfall/internal/db"
	"github.com/alexanderramin/waterfall/internal/generation"
	"github.com/alexanderramin/waterfall/internal/llm"
	"github.com/alexanderramin/waterfall/internal/repository"
	"github.com/alexanderramin/waterfall/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Logging is off unless WATERFALL_LOG names a file or "stderr".
	var logOut io.Writer = io.Discard
	switch cfg.LogPath {
	case "":
	case "stderr":
		logOut = os.Stderr
	default:
		f, err := os.OpenFile(cfg.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	logger := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: slog.LevelInfo}))
	observer := app.NewSlogUseCaseObserver(logger)

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	planRepo := repository.NewSQLitePlanRepo(database)
	revisionRepo := repository.NewSQLiteRevisionRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)

	var llmObserver llm.Observer = llm.NoopObserver{}
	if cfg.LogPath != "" {
		llmObserver = llm.NewLogObserver(logOut)
	}
	var client llm.LLMClient
	if cfg.LLM.Enabled {
		client = llm.NewOllamaClient(cfg.LLM, llmObserver)
	}
	gen := generation.New(cfg.LLM, client, func(prompt string, err error) {
		logger.Warn("llm_fallback", "prompt", prompt, "error", err.Error())
	})

	a := &cli.App{
		Generator: gen,
		Library:   service.NewLibraryService(planRepo, revisionRepo, uow, observer),
		Observer:  observer,
	}
	a.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(a).Execute()
}
