package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"applianceassist/internal/app"
	"applianceassist/internal/handlers"
	"applianceassist/internal/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logger.New("cmd").File("serve").Function("runServe")

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	config, err := loadConfig()
	if err != nil {
		return err
	}

	application, err := app.Build(ctx, config)
	if err != nil {
		return log.Err("failed to build app", err)
	}
	defer func() {
		if err := application.Close(); err != nil {
			log.Er("failed to close app", err)
		}
	}()

	server := fiber.New(fiber.Config{
		AppName:               "applianceassist " + config.GeneralVersion,
		DisableStartupMessage: true,
		CaseSensitive:         true,
		ReadTimeout:           15 * time.Second,
		WriteTimeout:          60 * time.Second,
		IdleTimeout:           2 * time.Minute,
	})

	if err := handlers.Router(server, application); err != nil {
		return log.Err("failed to register routes", err)
	}

	listenErr := make(chan error, 1)
	go func() {
		address := fmt.Sprintf(":%d", config.ServerPort)
		log.Info("Server listening", "address", address, "environment", config.Environment)
		listenErr <- server.Listen(address)
	}()

	select {
	case err := <-listenErr:
		if err != nil {
			return log.Err("server stopped unexpectedly", err)
		}
		return nil
	case <-ctx.Done():
		log.Info("Shutting down server")
	}

	if err := server.ShutdownWithTimeout(shutdownTimeout); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return log.Err("failed to shut down server", err)
	}

	log.Info("Server stopped")
	return nil
}
