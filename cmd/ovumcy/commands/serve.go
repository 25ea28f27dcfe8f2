package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/terraincognita07/ovumcy-insights/internal/api"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "serve",
		Short:       "Start the HTTP API",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{requiresSecretAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			database, closeDatabase, err := openDatabase(cfg.DBPath, logger)
			if err != nil {
				return err
			}
			defer closeDatabase()

			handler, err := api.NewHandler(database, cfg.SecretKey, cfg.Location, logger)
			if err != nil {
				return fmt.Errorf("handler init failed: %w", err)
			}
			app := newApp(handler, logger)

			sigCtx, stopSignals := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stopSignals()

			go func() {
				<-sigCtx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				if err := app.ShutdownWithContext(shutdownCtx); err != nil {
					logger.Error().Err(err).Msg("server shutdown failed")
				}
			}()

			logger.Info().
				Str("port", cfg.Port).
				Str("db", cfg.DBPath).
				Str("tz", cfg.Location.String()).
				Msg("ovumcy listening")
			if err := app.Listen(":" + cfg.Port); err != nil {
				return fmt.Errorf("server exited: %w", err)
			}
			return nil
		},
	}
}

func newApp(handler *api.Handler, logger zerolog.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "Ovumcy insights",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Output: logger.With().Str("component", "http").Logger(),
		Format: "${status} ${method} ${path} ${latency}\n",
	}))
	api.RegisterRoutes(app, handler)
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	})
	return app
}
