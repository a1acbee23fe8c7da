package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yukikurage/study-planner-api/internal/auth"
	"github.com/yukikurage/study-planner-api/internal/config"
	"github.com/yukikurage/study-planner-api/internal/database"
	"github.com/yukikurage/study-planner-api/internal/handlers"
	"github.com/yukikurage/study-planner-api/internal/logging"
	"github.com/yukikurage/study-planner-api/internal/server"
	"github.com/yukikurage/study-planner-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log := logging.New(cfg.LogLevel, cfg.LogFormat)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to the store and prepare its schema
	store, err := database.Open(context.Background(), cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("failed to open database")
	}

	verifier, err := newVerifier(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to configure authentication")
	}

	taskService := services.NewTaskService(store.Tasks)
	taskHandler := handlers.NewTaskHandler(taskService, log)

	router := server.NewRouter(server.Options{
		TaskHandler: taskHandler,
		Verifier:    verifier,
		Logger:      log,
		CORSOrigin:  cfg.CORSOrigin,
		Environment: cfg.Environment,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("environment", cfg.Environment).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			// Stop accepting requests before the store goes away
			"server": func(ctx context.Context) error {
				log.Info().Msg("graceful shutdown initiated")
				httpErr := srv.Shutdown(ctx)
				storeErr := store.Close(ctx)
				return errors.Join(httpErr, storeErr)
			},
		},
	)

	exitCode := <-wait
	log.Info().Int("exit_code", exitCode).Msg("server stopped")
	os.Exit(exitCode)
}

func newVerifier(cfg *config.Config, log zerolog.Logger) (auth.Verifier, error) {
	switch cfg.AuthMode {
	case config.AuthModeJWT:
		return auth.NewJWTVerifier(auth.JWTConfig{
			SecretKey: cfg.JWTSecret,
			Issuer:    cfg.JWTIssuer,
		}), nil
	case config.AuthModeInsecureDev:
		log.Warn().Msg("AUTH_MODE=insecure-dev: bearer credentials are trusted without verification; do not use outside local development")
		return auth.InsecureHeaderVerifier{}, nil
	default:
		return nil, fmt.Errorf("unknown auth mode %q", cfg.AuthMode)
	}
}
