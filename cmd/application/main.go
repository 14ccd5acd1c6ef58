package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storecatalog/config"
	"storecatalog/internal/auth"
	"storecatalog/internal/inventory/app"
	"storecatalog/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to yaml config (optional, env overrides it)")
	syncOnly := flag.Bool("sync", false, "run one catalog sync and exit")
	exportPath := flag.String("export", "", "write the cached catalog to this .xlsx file and exit")
	issueToken := flag.String("issue-token", "", "print an admin JWT for this subject and exit")
	tokenTTL := flag.Duration("token-ttl", 24*time.Hour, "lifetime of the token printed by -issue-token")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	if *issueToken != "" {
		token, err := auth.IssueToken(cfg.Server.JWTSecret, *issueToken, auth.RoleAdmin, *tokenTTL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "issue token: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(token)
		return
	}

	log, err := logger.New(cfg.Log, "[catalog]")
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	log.Log("Started app")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log, *syncOnly, *exportPath); err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.AppConfig, log *logger.BaseLogger, syncOnly bool, exportPath string) error {
	server, err := app.NewCatalogServer(cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := server.Close(); err != nil {
			log.Warn("Close: %v", err)
		}
	}()

	switch {
	case syncOnly:
		res, err := server.SyncOnce(ctx)
		if err != nil {
			return fmt.Errorf("sync failed: %w", err)
		}
		log.Log("Sync %s: fetched=%d dropped=%d stored=%d in %v",
			res.RunID, res.Fetched, res.Dropped, res.Stored, res.Duration)
		if exportPath == "" {
			return nil
		}
		fallthrough
	case exportPath != "":
		_, err := server.Export(ctx, exportPath)
		return err
	default:
		return server.Run(ctx)
	}
}
