package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/spigell/resume-coach/internal/achievements"
	"github.com/spigell/resume-coach/internal/ai"
	"github.com/spigell/resume-coach/internal/apperr"
	"github.com/spigell/resume-coach/internal/help"
	"github.com/spigell/resume-coach/internal/store"
)

const maxBodyBytes = 1 << 20

type submitRequest struct {
	Resume string `json:"resume"`
}

type chatRequest struct {
	Message  string          `json:"message"`
	Analysis json.RawMessage `json:"analysis"`
}

func (s *server) health(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

func (s *server) submitAnalysis(c *gin.Context) {
	id, _ := identityFrom(c)

	var req submitRequest
	if !s.bindJSON(c, &req) {
		return
	}

	sub, err := s.cfg.Analyses.Submit(c.Request.Context(), id.UserID, req.Resume)
	if err != nil {
		abortWithError(c, s.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"analysis": sub})
}

func (s *server) listAnalyses(c *gin.Context) {
	id, _ := identityFrom(c)

	limit := 0
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			abortWithError(c, s.logger, apperr.Validation("limit must be a positive integer"))
			return
		}
		limit = n
	}

	records, err := s.cfg.Analyses.History(c.Request.Context(), id.UserID, limit)
	if err != nil {
		abortWithError(c, s.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"analyses": records})
}

func (s *server) achievements(c *gin.Context) {
	id, _ := identityFrom(c)
	ctx := c.Request.Context()

	unlocked, err := s.cfg.Achievements.CheckAndAward(ctx, id.UserID)
	if err != nil {
		abortWithError(c, s.logger, err)
		return
	}
	if unlocked == nil {
		unlocked = []store.BadgeDefinition{}
	}

	entries, err := s.cfg.Badges.ListForUser(ctx, id.UserID)
	if err != nil {
		abortWithError(c, s.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"achievements":  entries,
		"newlyUnlocked": unlocked,
		"summary":       achievements.Summarize(entries),
	})
}

func (s *server) userBadges(c *gin.Context) {
	id, _ := identityFrom(c)

	earned, err := s.cfg.Badges.EarnedForUser(c.Request.Context(), id.UserID)
	if err != nil {
		abortWithError(c, s.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"badges": earned})
}

func (s *server) chatCoach(c *gin.Context) {
	var req chatRequest
	if !s.bindJSON(c, &req) {
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		abortWithError(c, s.logger, apperr.Validation("message is required"))
		return
	}
	if s.cfg.Coach == nil {
		abortWithError(c, s.logger, apperr.AIMisconfigured(ai.ErrNotConfigured))
		return
	}

	answer, err := s.cfg.Coach.Answer(c.Request.Context(), req.Message, string(req.Analysis))
	if err != nil {
		abortWithError(c, s.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"answer": answer})
}

func (s *server) listHelp(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"topics": help.Keys()})
}

func (s *server) getHelp(c *gin.Context) {
	topic, err := help.Lookup(c.Param("topic"))
	if err != nil {
		abortWithError(c, s.logger, err)
		return
	}
	c.JSON(http.StatusOK, topic)
}

func (s *server) bindJSON(c *gin.Context, dst any) bool {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
	if err := c.ShouldBindJSON(dst); err != nil {
		abortWithError(c, s.logger, apperr.Validation("request body must be valid JSON"))
		return false
	}
	return true
}
