package main

import (
	"fmt"
	"os"

	"github.com/JonnyWalker81/foodmood/backend/internal/config"
	"github.com/JonnyWalker81/foodmood/backend/internal/insights"
	"github.com/JonnyWalker81/foodmood/backend/internal/logger"
	"github.com/JonnyWalker81/foodmood/backend/internal/repository"
	"github.com/JonnyWalker81/foodmood/backend/internal/service"
	"github.com/JonnyWalker81/foodmood/backend/pkg/supabase"
)

// app holds the services shared by every subcommand.
type app struct {
	cfg            *config.Config
	log            logger.Logger
	supabaseClient *supabase.Client
	insightService service.InsightService
	foodLogService service.FoodLogService
}

func newLogger(cfg config.LoggingConfig, out *os.File) logger.Logger {
	return logger.NewSlogLogger(logger.Config{
		Level:  logger.ParseLevel(cfg.Level),
		Format: cfg.Format,
		Output: out,
	})
}

func newEngine(cfg config.InsightsConfig) *insights.Engine {
	opts := []insights.Option{insights.WithChronologicalTrendSplit(cfg.ChronologicalTrendSplit)}
	if cfg.ScoreTable == config.ScoreTableFlat {
		opts = append(opts, insights.WithScores(insights.FlatScores()))
	}
	return insights.NewEngine(opts...)
}

// newApp wires repositories for the configured store driver into services.
func newApp(cfg *config.Config, log logger.Logger) (*app, error) {
	a := &app{
		cfg:            cfg,
		log:            log,
		supabaseClient: supabase.NewClient(cfg.Supabase.URL, cfg.Supabase.ServiceKey),
	}

	var (
		foodLogRepo repository.FoodLogRepository
		insightRepo repository.InsightRepository
	)
	switch cfg.Store.Driver {
	case config.StorePostgres:
		db, err := repository.NewPostgresDB(cfg.Store.DatabaseURL, !cfg.IsProduction() && cfg.Logging.Level == "debug")
		if err != nil {
			return nil, err
		}
		foodLogRepo = repository.NewPostgresFoodLogRepository(db)
		insightRepo = repository.NewPostgresInsightRepository(db)
	case config.StoreSupabase:
		foodLogRepo = repository.NewSupabaseFoodLogRepository(a.supabaseClient)
		insightRepo = repository.NewSupabaseInsightRepository(a.supabaseClient)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}

	engine := newEngine(cfg.Insights)
	a.insightService = service.NewInsightService(foodLogRepo, insightRepo, engine)
	a.foodLogService = service.NewFoodLogService(foodLogRepo, engine)

	log.Info("services initialized",
		logger.String("store", cfg.Store.Driver),
		logger.String("score_table", cfg.Insights.ScoreTable),
	)
	return a, nil
}
