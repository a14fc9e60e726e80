// Package httpapi exposes the scoring pipeline and achievements over HTTP.
package httpapi

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spigell/resume-coach/internal/achievements"
	"github.com/spigell/resume-coach/internal/ai"
	"github.com/spigell/resume-coach/internal/analysis"
	"github.com/spigell/resume-coach/internal/auth"
	"github.com/spigell/resume-coach/internal/logger"
	"github.com/spigell/resume-coach/internal/store"
	"go.uber.org/zap"
)

const DefaultCookieName = "token"

type Analyses interface {
	Submit(ctx context.Context, userID, resumeText string) (*analysis.Submission, error)
	History(ctx context.Context, userID string, limit int) ([]store.AnalysisRecord, error)
}

type AchievementEngine interface {
	CheckAndAward(ctx context.Context, userID string) ([]store.BadgeDefinition, error)
}

type AchievementQuery interface {
	ListForUser(ctx context.Context, userID string) ([]achievements.Entry, error)
	EarnedForUser(ctx context.Context, userID string) ([]achievements.Entry, error)
}

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (auth.Identity, error)
}

type Config struct {
	Analyses     Analyses
	Achievements AchievementEngine
	Badges       AchievementQuery
	// Coach may be nil when no AI provider is configured.
	Coach          ai.Coach
	Auth           Authenticator
	CookieName     string
	AllowedOrigins []string
	Logger         *zap.Logger
}

type server struct {
	cfg    Config
	logger *zap.Logger
}

func NewRouter(cfg Config) *gin.Engine {
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultCookieName
	}
	s := &server{cfg: cfg, logger: logger.OrNop(cfg.Logger)}

	router := gin.New()
	router.Use(requestLogger(s.logger), recovery(s.logger))

	if len(cfg.AllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Authorization", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	router.GET("/healthz", s.health)
	router.GET("/help", s.listHelp)
	router.GET("/help/:topic", s.getHelp)

	protected := router.Group("/")
	protected.Use(requireAuth(cfg.Auth, cfg.CookieName, s.logger))
	protected.POST("/analyses", s.submitAnalysis)
	protected.GET("/analyses", s.listAnalyses)
	protected.GET("/achievements", s.achievements)
	protected.GET("/badges/user", s.userBadges)
	protected.POST("/chat-coach", s.chatCoach)

	return router
}
