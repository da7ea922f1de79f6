package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/stuvia/courserank/internal/catalog"
	"github.com/stuvia/courserank/internal/config"
	"github.com/stuvia/courserank/internal/embedding"
	"github.com/stuvia/courserank/internal/predictor"
	"github.com/stuvia/courserank/internal/services"
	"github.com/stuvia/courserank/internal/vectorcache"
	"github.com/stuvia/courserank/pkg/models"
)

func main() {
	var (
		catalogPath = flag.String("catalog", "./data/courses.json", "path to the course catalog JSON file")
		studentPath = flag.String("student", "", "path to a student profile JSON file (required)")
		strategy    = flag.String("strategy", "hybrid", "scoring strategy: hybrid, semantic, predictive or collaborative")
		count       = flag.Int("count", 0, "number of recommendations (0 uses the configured default)")
		categories  = flag.String("categories", "", "comma-separated category filter")
		outDir      = flag.String("out", "./outputs", "directory for the recommendation report")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Logging)

	if *studentPath == "" {
		logger.Fatal("-student is required")
	}
	student, err := loadStudent(*studentPath)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load student profile")
	}
	parsedStrategy, err := models.ParseStrategy(*strategy)
	if err != nil {
		logger.WithError(err).Fatal("Invalid strategy")
	}

	orchestrator, err := buildOrchestrator(cfg, *catalogPath, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize recommendation pipeline")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	req := models.RecommendRequest{
		StudentID: student.ID,
		Count:     *count,
		Strategy:  parsedStrategy,
	}
	if *categories != "" {
		req.Categories = strings.Split(*categories, ",")
	}

	recommendations, err := orchestrator.Recommend(ctx, student, req)
	if err != nil {
		logger.WithError(err).Fatal("Recommendation failed")
	}

	printRecommendations(recommendations)

	path, err := orchestrator.SaveReport(student.ID, parsedStrategy, recommendations, *outDir)
	if err != nil {
		logger.WithError(err).Fatal("Failed to save report")
	}
	fmt.Printf("\nReport saved to %s\n", path)
}

func newLogger(cfg config.LoggingConfig) *logrus.Logger {
	logger := logrus.New()
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	if cfg.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return logger
}

func loadStudent(path string) (*models.StudentProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read student profile: %w", err)
	}
	var student models.StudentProfile
	if err := json.Unmarshal(data, &student); err != nil {
		return nil, fmt.Errorf("parse student profile: %w", err)
	}
	if student.ID == "" {
		return nil, fmt.Errorf("student profile has no id")
	}
	return &student, nil
}

func buildOrchestrator(cfg *config.Config, catalogPath string, logger *logrus.Logger) (*services.RecommendationOrchestrator, error) {
	cache := vectorcache.New(cfg.Cache.Path, logger)
	provider := embedding.NewOpenAIProvider(cfg.Embedding, logger)
	embedder := embedding.NewCachedEmbedder(provider, cache, cfg.Embedding.BatchLimit, logger)

	var pred predictor.Predictor = predictor.NewHeuristic()
	if cfg.Predictor.Endpoint != "" {
		pred = predictor.NewHTTPClient(cfg.Predictor, logger)
	}

	// No peer source is wired in the CLI; collaborative scoring stays neutral.
	peers := services.NewPeerFinder(nil, cfg.Recommend.PeerThreshold, cfg.Recommend.MaxPeers, logger)

	metrics := services.NewMetrics(prometheus.DefaultRegisterer)
	scorers := services.NewScorerService(embedder, pred, peers, metrics, logger)

	var redisClient *redis.Client
	if cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		redisClient = redis.NewClient(opts)
	}

	source, err := catalog.NewFileSource(catalogPath, logger)
	if err != nil {
		return nil, err
	}

	weights := map[models.Strategy]float64{
		models.StrategySemantic:      cfg.Recommend.Weights.Semantic,
		models.StrategyPredictive:    cfg.Recommend.Weights.Predictive,
		models.StrategyCollaborative: cfg.Recommend.Weights.Collaborative,
	}

	return services.NewRecommendationOrchestrator(
		context.Background(),
		source,
		scorers,
		weights,
		cfg.Recommend.DefaultCount,
		redisClient,
		cfg.Redis.ResultsTTL,
		metrics,
		logger,
	)
}

func printRecommendations(recommendations []models.Recommendation) {
	if len(recommendations) == 0 {
		fmt.Println("No eligible courses found.")
		return
	}
	for _, rec := range recommendations {
		fmt.Printf("%d. %s (score %.2f, confidence %.2f)\n",
			rec.Position, rec.Course.Name, rec.Score, rec.Confidence)
		fmt.Printf("   %s\n", rec.Reasoning)
	}
}
