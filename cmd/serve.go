package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spigell/resume-coach/internal/achievements"
	"github.com/spigell/resume-coach/internal/analysis"
	"github.com/spigell/resume-coach/internal/auth"
	"github.com/spigell/resume-coach/internal/httpapi"
	"github.com/spigell/resume-coach/internal/secrets"
	"github.com/spigell/resume-coach/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API",
	Run: func(_ *cobra.Command, _ []string) {
		serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("listen", "l", "", "address to listen on (default :8080)")
	viper.BindPFlag("listen", serveCmd.Flags().Lookup("listen"))
}

func serve() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger, config := loadConfig()
	defer logger.Sync()

	logger.Info("starting the resume-coach", zap.String("version", version))

	secret, err := secrets.Load(secrets.Source{
		Name:  "jwt secret",
		Value: config.Auth.JWTSecret,
		File:  config.Auth.JWTSecretFile,
	})
	if err != nil {
		logger.Fatal("loading jwt secret", zap.Error(err), zap.String("hint", "set auth.jwt-secret-file or RESUME_COACH_AUTH_JWT_SECRET"))
	}
	authn, err := auth.NewAuthenticator(secret)
	if err != nil {
		logger.Fatal("creating authenticator", zap.Error(err))
	}

	db, err := openStore(ctx, config.Database, logger)
	if err != nil {
		logger.Fatal("opening storage", zap.Error(err))
	}
	defer closeStore(db, logger)

	p, err := newPipeline(ctx, config.AI, logger)
	if err != nil {
		logger.Fatal("configuring the analysis pipeline", zap.Error(err))
	}

	analyses := store.NewAnalysisRepository(db)
	badges := store.NewBadgeRepository(db)

	if !viper.GetBool("debug") {
		gin.SetMode(gin.ReleaseMode)
	}

	router := httpapi.NewRouter(httpapi.Config{
		Analyses:       analysis.NewService(p.orchestrator, analyses, logger.Named("analysis")),
		Achievements:   achievements.NewEngine(analyses, badges, logger.Named("achievements")),
		Badges:         achievements.NewQueryService(badges, logger.Named("achievements")),
		Coach:          p.coach,
		Auth:           authn,
		CookieName:     config.Auth.CookieName,
		AllowedOrigins: config.CORS.AllowedOrigins,
		Logger:         logger.Named("http"),
	})

	srv := &http.Server{
		Addr:              config.Listen,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// AI calls inherit the request lifetime, so the write timeout bounds them.
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", config.Listen), zap.String("mode", p.orchestrator.Mode().String()))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("serving http", zap.Error(err))
		}
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
	}
}
