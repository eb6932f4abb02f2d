package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"storefront_server/api"
	"storefront_server/config"
	"storefront_server/database"
	"storefront_server/seed"
	"storefront_server/services"
	"storefront_server/storage"
	"syscall"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/joho/godotenv"
	"github.com/oklog/run"
	"github.com/urfave/cli/v2"
)

func main() {
	envErr := godotenv.Load()
	logger := config.InitializeLogger()
	if envErr != nil {
		logger.Warn("No .env file found or error loading .env file, proceeding with system environment variables")
	}

	app := &cli.App{
		Name:           "storefront",
		Usage:          "weekly storefront API",
		DefaultCommand: "serve",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "start the HTTP server",
				Action: serve,
			},
			{
				Name:  "migrate",
				Usage: "apply the schema migrations",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "down", Usage: "roll back every migration"},
				},
				Action: func(c *cli.Context) error {
					return database.Migrate(config.GetConfig().Database, c.Bool("down"))
				},
			},
			{
				Name:  "seed",
				Usage: "insert demo data into an empty database",
				Action: func(c *cli.Context) error {
					db, err := database.Connect(c.Context, config.GetConfig().Database, logger)
					if err != nil {
						return err
					}
					defer db.Close()
					return seed.Run(c.Context, logger, database.NewStore(db))
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Fatal("Command failed", gecho.Field("error", err))
	}
}

func serve(c *cli.Context) error {
	cfg := config.GetConfig()
	logger := config.GetLogger()

	if err := config.Check(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	db, err := database.Connect(c.Context, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	disk, err := storage.NewLocalDisk(cfg.Storage.Root, cfg.Storage.PublicURL)
	if err != nil {
		return err
	}

	sm := services.NewServiceManager(logger, cfg, db, disk)
	defer sm.CacheService.Close()

	server := &http.Server{
		Addr:           cfg.Server.Port,
		Handler:        api.App(logger, cfg, sm, disk),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	var g run.Group
	g.Add(func() error {
		logger.Info(fmt.Sprintf("Starting server (%s) on %s", cfg.Server.AppName, cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}, func(error) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("Failed to shut down server", gecho.Field("error", err))
		}
	})
	g.Add(run.SignalHandler(c.Context, os.Interrupt, syscall.SIGTERM))

	err = g.Run()
	var sigErr run.SignalError
	if errors.As(err, &sigErr) {
		logger.Info("Received shutdown signal", gecho.Field("signal", sigErr.Signal.String()))
		return nil
	}
	return err
}
