package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/JonnyWalker81/foodmood/backend/internal/config"
	"github.com/JonnyWalker81/foodmood/backend/internal/logger"
	"github.com/JonnyWalker81/foodmood/backend/internal/models"
	"github.com/JonnyWalker81/foodmood/backend/internal/service"
)

var generateCmd = &cobra.Command{
	Use:       "generate <weekly|monthly|pattern>",
	Short:     "Generate insights for one or more users",
	Long:      `Run insight generation outside the HTTP server, e.g. from a scheduled job. One JSON line is printed per user.`,
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{string(models.InsightTypeWeekly), string(models.InsightTypeMonthly), string(models.InsightTypePattern)},
	RunE:      runGenerate,
}

var (
	generateUsers       []string
	generateConcurrency int
)

func init() {
	generateCmd.Flags().StringSliceVarP(&generateUsers, "user", "u", nil, "User ID to generate for (repeatable)")
	generateCmd.Flags().IntVarP(&generateConcurrency, "concurrency", "c", 4, "Maximum users processed at once")
	_ = generateCmd.MarkFlagRequired("user")
}

// generateLine is printed for every user processed.
type generateLine struct {
	UserID  string                   `json:"user_id"`
	Outcome models.GenerationOutcome `json:"outcome,omitempty"`
	Message string                   `json:"message,omitempty"`
	Insight string                   `json:"insight_id,omitempty"`
	Error   string                   `json:"error,omitempty"`
}

func runGenerate(cmd *cobra.Command, args []string) error {
	insightType := models.InsightType(args[0])

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// stdout carries the results
	log := newLogger(cfg.Logging, os.Stderr)
	logger.SetDefault(log)

	a, err := newApp(cfg, log)
	if err != nil {
		return err
	}

	failed, err := generateAll(cmd.Context(), a.insightService, insightType, generateUsers, generateConcurrency, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("insight generation failed for %d of %d users", failed, len(generateUsers))
	}
	return nil
}

// generateAll runs generation for users with at most concurrency in flight
// and writes one JSON line per user to out. A user whose generation fails is
// counted and the rest continue; a failed write stops the batch.
func generateAll(ctx context.Context, svc service.InsightService, insightType models.InsightType, users []string, concurrency int, out io.Writer) (int, error) {
	var (
		mu     sync.Mutex
		enc    = json.NewEncoder(out)
		failed int
	)
	write := func(line generateLine) error {
		mu.Lock()
		defer mu.Unlock()
		if line.Error != "" {
			failed++
		}
		if err := enc.Encode(line); err != nil {
			return fmt.Errorf("failed to write result for user %s: %w", line.UserID, err)
		}
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(concurrency, 1))
	for _, userID := range users {
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			ctx := logger.WithUserID(ctx, userID)
			result, err := svc.Generate(ctx, userID, insightType)
			if err != nil {
				// one user's failure does not stop the others
				return write(generateLine{UserID: userID, Error: err.Error()})
			}

			line := generateLine{UserID: userID, Outcome: result.Outcome, Message: result.Message}
			if result.Generated() {
				line.Insight = result.Insight.ID
			}
			return write(line)
		})
	}
	err := g.Wait()

	mu.Lock()
	defer mu.Unlock()
	return failed, err
}
