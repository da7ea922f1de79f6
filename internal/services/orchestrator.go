package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/stuvia/courserank/internal/catalog"
	"github.com/stuvia/courserank/pkg/models"
)

// RecommendationOrchestrator owns one recommendation pipeline: eligibility
// filtering, strategy scoring, blending, confidence and reasoning, ranking.
// The catalog is loaded once at construction.
type RecommendationOrchestrator struct {
	courses      []models.Course
	coursesByID  map[string]models.Course
	scorers      *ScorerService
	explainer    *ExplanationService
	weights      map[models.Strategy]float64
	defaultCount int
	redisClient  *redis.Client
	resultsTTL   time.Duration
	validate     *validator.Validate
	metrics      *Metrics
	logger       *logrus.Logger
}

// NewRecommendationOrchestrator loads the catalog from source and wires the
// pipeline. redisClient may be nil, which disables the warm result cache.
func NewRecommendationOrchestrator(
	ctx context.Context,
	source catalog.Source,
	scorers *ScorerService,
	weights map[models.Strategy]float64,
	defaultCount int,
	redisClient *redis.Client,
	resultsTTL time.Duration,
	metrics *Metrics,
	logger *logrus.Logger,
) (*RecommendationOrchestrator, error) {
	courses, err := source.Courses(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	byID := make(map[string]models.Course, len(courses))
	for _, c := range courses {
		byID[c.ID] = c
	}

	if len(weights) == 0 {
		weights = DefaultWeights()
	}
	if defaultCount <= 0 {
		defaultCount = 5
	}

	logger.WithField("courses", len(courses)).Info("Recommendation orchestrator initialized")

	return &RecommendationOrchestrator{
		courses:      courses,
		coursesByID:  byID,
		scorers:      scorers,
		explainer:    NewExplanationService(courses, logger),
		weights:      weights,
		defaultCount: defaultCount,
		redisClient:  redisClient,
		resultsTTL:   resultsTTL,
		validate:     validator.New(),
		metrics:      metrics,
		logger:       logger,
	}, nil
}

// Recommend produces the ranked recommendation list for one student. Results
// are deterministic for identical inputs: scoring is sequential and ties are
// broken by course id.
func (o *RecommendationOrchestrator) Recommend(ctx context.Context, student *models.StudentProfile, req models.RecommendRequest) ([]models.Recommendation, error) {
	if student == nil {
		return nil, fmt.Errorf("student profile is required")
	}

	if req.Count == 0 {
		req.Count = o.defaultCount
	}
	if req.Strategy == "" {
		req.Strategy = models.StrategyHybrid
	}
	if req.StudentID == "" {
		req.StudentID = student.ID
	}
	if err := o.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid recommendation request: %w", err)
	}

	start := time.Now()
	requestID := uuid.New()
	log := o.logger.WithFields(logrus.Fields{
		"request_id": requestID,
		"student_id": student.ID,
		"strategy":   req.Strategy,
	})

	if cached, ok := o.cachedResult(ctx, student, req); ok {
		o.metrics.IncResultCacheHits()
		log.Debug("Recommendations served from result cache")
		return cached, nil
	}
	o.metrics.IncResultCacheMisses()

	eligible := o.eligibleCourses(student, req.Categories)
	if len(eligible) == 0 {
		o.metrics.IncEmptyResults()
		log.Info("No eligible courses for student")
		return []models.Recommendation{}, nil
	}

	weights := o.strategyWeights(req.Strategy)

	scores := make(map[models.Strategy]map[string]float64, len(weights))
	for strategy := range weights {
		records, err := o.runStrategy(ctx, strategy, student, eligible)
		if err != nil {
			return nil, err
		}
		perCourse := make(map[string]float64, len(records))
		for id, record := range records {
			perCourse[id] = record.Score
		}
		scores[strategy] = perCourse
	}

	blended := Blend(scores, weights)

	recommendations := make([]models.Recommendation, 0, len(eligible))
	for _, course := range eligible {
		breakdown := make(map[models.Strategy]float64, len(scores))
		for strategy, perCourse := range scores {
			breakdown[strategy] = perCourse[course.ID]
		}
		score := blended[course.ID]
		recommendations = append(recommendations, models.Recommendation{
			Course:     course,
			Score:      score,
			Confidence: o.explainer.Confidence(score),
			Breakdown:  breakdown,
			Reasoning:  o.explainer.Explain(breakdown, course, req.Strategy),
		})
	}

	sort.SliceStable(recommendations, func(i, j int) bool {
		if recommendations[i].Score != recommendations[j].Score {
			return recommendations[i].Score > recommendations[j].Score
		}
		return recommendations[i].Course.ID < recommendations[j].Course.ID
	})

	if len(recommendations) > req.Count {
		recommendations = recommendations[:req.Count]
	}
	for i := range recommendations {
		recommendations[i].Position = i + 1
	}

	o.storeResult(ctx, student, req, recommendations)

	o.metrics.ObserveRequest(string(req.Strategy), time.Since(start))
	log.WithFields(logrus.Fields{
		"eligible":        len(eligible),
		"recommendations": len(recommendations),
		"duration_ms":     time.Since(start).Milliseconds(),
	}).Info("Recommendations generated")

	return recommendations, nil
}

// SaveReport writes one recommendation run to a timestamped JSON file under
// dir and returns the path.
func (o *RecommendationOrchestrator) SaveReport(studentID string, strategy models.Strategy, recommendations []models.Recommendation, dir string) (string, error) {
	report := models.RecommendationReport{
		RequestID:       uuid.New(),
		StudentID:       studentID,
		Strategy:        strategy,
		GeneratedAt:     time.Now().UTC(),
		Recommendations: recommendations,
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create report directory: %w", err)
	}

	filename := fmt.Sprintf("recommendations_%s_%s.json", studentID, report.GeneratedAt.Format("20060102_150405"))
	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}

	o.logger.WithField("path", path).Info("Recommendation report saved")
	return path, nil
}

// eligibleCourses filters the catalog to courses the student can take: not
// completed, not currently enrolled, all prerequisites completed, and in one
// of the requested categories when a filter is given.
func (o *RecommendationOrchestrator) eligibleCourses(student *models.StudentProfile, categories []string) []models.Course {
	completed := student.CompletedSet()
	enrolled := student.EnrolledSet()

	var categoryFilter map[string]bool
	if len(categories) > 0 {
		categoryFilter = make(map[string]bool, len(categories))
		for _, c := range categories {
			categoryFilter[c] = true
		}
	}

	var eligible []models.Course
	for _, course := range o.courses {
		if completed[course.ID] || enrolled[course.ID] {
			continue
		}
		if categoryFilter != nil && !categoryFilter[course.Category] {
			continue
		}
		satisfied := true
		for _, prereq := range course.Prerequisites {
			if !completed[prereq] {
				satisfied = false
				break
			}
		}
		if !satisfied {
			continue
		}
		eligible = append(eligible, course)
	}
	return eligible
}

// strategyWeights returns the blend weights for the requested mode: the
// configured mix for hybrid, or a single full-weight entry otherwise.
func (o *RecommendationOrchestrator) strategyWeights(strategy models.Strategy) map[models.Strategy]float64 {
	if strategy == models.StrategyHybrid {
		return o.weights
	}
	return map[models.Strategy]float64{strategy: 1.0}
}

func (o *RecommendationOrchestrator) runStrategy(ctx context.Context, strategy models.Strategy, student *models.StudentProfile, eligible []models.Course) (map[string]models.ScoreRecord, error) {
	switch strategy {
	case models.StrategySemantic:
		return o.scorers.SemanticScores(ctx, student, eligible, o.coursesByID)
	case models.StrategyPredictive:
		return o.scorers.PredictiveScores(ctx, student, eligible), nil
	case models.StrategyCollaborative:
		return o.scorers.CollaborativeScores(ctx, student, eligible), nil
	default:
		return nil, fmt.Errorf("unknown strategy %q", strategy)
	}
}

// resultCacheKey includes a digest of the student's completed and enrolled
// sets. The profile is caller-supplied per request, so a key on student id
// alone would serve stale results after the student completes or enrolls in
// a recommended course, violating the eligibility filter.
func (o *RecommendationOrchestrator) resultCacheKey(student *models.StudentProfile, req models.RecommendRequest) string {
	return fmt.Sprintf("recommendations:%s:%s:%d:%s:%s",
		req.StudentID, req.Strategy, req.Count, strings.Join(req.Categories, ","),
		profileFingerprint(student))
}

func profileFingerprint(student *models.StudentProfile) string {
	completed := append([]string(nil), student.CompletedCourseIDs...)
	enrolled := append([]string(nil), student.EnrolledCourseIDs...)
	sort.Strings(completed)
	sort.Strings(enrolled)

	h := sha256.New()
	h.Write([]byte(strings.Join(completed, ",")))
	h.Write([]byte{'|'})
	h.Write([]byte(strings.Join(enrolled, ",")))
	return hex.EncodeToString(h.Sum(nil))[:16]
}

func (o *RecommendationOrchestrator) cachedResult(ctx context.Context, student *models.StudentProfile, req models.RecommendRequest) ([]models.Recommendation, bool) {
	if o.redisClient == nil {
		return nil, false
	}

	data, err := o.redisClient.Get(ctx, o.resultCacheKey(student, req)).Bytes()
	if err != nil {
		if err != redis.Nil {
			o.logger.WithError(err).Warn("Result cache read failed")
		}
		return nil, false
	}

	var recommendations []models.Recommendation
	if err := json.Unmarshal(data, &recommendations); err != nil {
		o.logger.WithError(err).Warn("Result cache entry corrupt, ignoring")
		return nil, false
	}
	return recommendations, true
}

func (o *RecommendationOrchestrator) storeResult(ctx context.Context, student *models.StudentProfile, req models.RecommendRequest, recommendations []models.Recommendation) {
	if o.redisClient == nil {
		return
	}

	data, err := json.Marshal(recommendations)
	if err != nil {
		o.logger.WithError(err).Warn("Failed to marshal recommendations for cache")
		return
	}
	if err := o.redisClient.Set(ctx, o.resultCacheKey(student, req), data, o.resultsTTL).Err(); err != nil {
		o.logger.WithError(err).Warn("Result cache write failed")
	}
}
