package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spigell/resume-coach/internal/achievements"
	"github.com/spigell/resume-coach/internal/analysis"
	"github.com/spigell/resume-coach/internal/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var scoreCmd = &cobra.Command{
	Use:   "score <file>",
	Short: "Score a resume file (use - for stdin) and print the result as JSON",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		user, _ := cmd.Flags().GetString("user")
		score(args[0], strings.TrimSpace(user))
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().StringP("user", "u", "", "store the analysis for this user id and check achievements")
}

func score(path, user string) {
	ctx := context.Background()
	logger, config := loadConfig()

	text, err := readResume(path)
	if err != nil {
		logger.Fatal("reading resume", zap.String("path", path), zap.Error(err))
	}

	p, err := newPipeline(ctx, config.AI, logger)
	if err != nil {
		logger.Fatal("configuring the analysis pipeline", zap.Error(err))
	}

	if user == "" {
		outcome, err := p.orchestrator.Analyze(ctx, text)
		if err != nil {
			logger.Fatal("analyzing resume", zap.Error(err))
		}
		printJSON(logger, outcome)
		return
	}

	db, err := openStore(ctx, config.Database, logger)
	if err != nil {
		logger.Fatal("opening storage", zap.Error(err))
	}
	defer closeStore(db, logger)

	analyses := store.NewAnalysisRepository(db)
	svc := analysis.NewService(p.orchestrator, analyses, logger)

	sub, err := svc.Submit(ctx, user, text)
	if err != nil {
		logger.Fatal("analyzing resume", zap.Error(err))
	}

	unlocked, err := achievements.NewEngine(analyses, store.NewBadgeRepository(db), logger).CheckAndAward(ctx, user)
	if err != nil {
		logger.Fatal("checking achievements", zap.Error(err))
	}

	printJSON(logger, map[string]any{
		"analysis":      sub,
		"newlyUnlocked": unlocked,
	})
}

func readResume(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		return string(data), err
	}
	data, err := os.ReadFile(path)
	return string(data), err
}

func printJSON(logger *zap.Logger, v any) {
	pretty, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		logger.Fatal("encoding result", zap.Error(err))
	}
	fmt.Println(string(pretty))
}
