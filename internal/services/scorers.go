package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/stuvia/courserank/internal/predictor"
	"github.com/stuvia/courserank/internal/similarity"
	"github.com/stuvia/courserank/pkg/models"
)

const neutralScore = 0.5

// Cold-start ranking when a student has no completed courses to compare
// against: easier courses score higher.
var coldStartScores = map[models.Difficulty]float64{
	models.DifficultyBeginner:     1.0,
	models.DifficultyIntermediate: 0.7,
	models.DifficultyAdvanced:     0.4,
}

// ScorerService runs the three scoring strategies. Each strategy returns a
// ScoreRecord per candidate; scores are always in [0,1] and every candidate
// gets a record, never an omission.
type ScorerService struct {
	embedder  Embedder
	predictor predictor.Predictor
	peers     *PeerFinder
	metrics   *Metrics
	logger    *logrus.Logger
}

func NewScorerService(embedder Embedder, pred predictor.Predictor, peers *PeerFinder, metrics *Metrics, logger *logrus.Logger) *ScorerService {
	return &ScorerService{
		embedder:  embedder,
		predictor: pred,
		peers:     peers,
		metrics:   metrics,
		logger:    logger,
	}
}

// SemanticScores scores candidates by embedding similarity to the student's
// completed courses. Completed ids missing from the catalog are skipped; a
// student with no resolvable history gets the cold-start difficulty ranking
// instead, with no provider call at all.
func (s *ScorerService) SemanticScores(ctx context.Context, student *models.StudentProfile, candidates []models.Course, catalog map[string]models.Course) (map[string]models.ScoreRecord, error) {
	var completed []models.Course
	for _, id := range student.CompletedCourseIDs {
		if course, ok := catalog[id]; ok {
			completed = append(completed, course)
		}
	}

	records := make(map[string]models.ScoreRecord, len(candidates))

	if len(completed) == 0 {
		for _, c := range candidates {
			score, ok := coldStartScores[c.Difficulty]
			if !ok {
				score = neutralScore
			}
			records[c.ID] = models.ScoreRecord{
				CourseID: c.ID,
				Strategy: models.StrategySemantic,
				Score:    score,
				Note:     "suggested as a starting point",
			}
		}
		s.logger.WithField("student_id", student.ID).Debug("Cold-start semantic scoring applied")
		return records, nil
	}

	texts := make([]string, 0, len(completed)+len(candidates))
	for _, c := range completed {
		texts = append(texts, c.RichText())
	}
	for _, c := range candidates {
		texts = append(texts, c.RichText())
	}

	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		s.metrics.IncProviderErrors()
		return nil, fmt.Errorf("semantic scoring: %w", err)
	}

	completedVectors := vectors[:len(completed)]
	candidateVectors := vectors[len(completed):]

	for i, c := range candidates {
		total := 0.0
		for _, cv := range completedVectors {
			total += similarity.Cosine(cv, candidateVectors[i])
		}
		score := total / float64(len(completedVectors))
		records[c.ID] = models.ScoreRecord{
			CourseID: c.ID,
			Strategy: models.StrategySemantic,
			Score:    score,
			Note:     fmt.Sprintf("%.2f similarity to your completed courses", score),
		}
	}

	return records, nil
}

// PredictiveScores scores candidates by predicted grade, normalized to [0,1].
// A failed or absent predictor degrades each candidate to the neutral score
// rather than failing the request.
func (s *ScorerService) PredictiveScores(ctx context.Context, student *models.StudentProfile, candidates []models.Course) map[string]models.ScoreRecord {
	records := make(map[string]models.ScoreRecord, len(candidates))

	for _, c := range candidates {
		record := models.ScoreRecord{
			CourseID: c.ID,
			Strategy: models.StrategyPredictive,
			Score:    neutralScore,
			Note:     "prediction unavailable",
		}

		if s.predictor != nil {
			prediction, err := s.predictor.PredictPerformance(ctx, student, c)
			if err != nil {
				s.metrics.IncPredictionFallbacks()
				s.logger.WithError(err).WithFields(logrus.Fields{
					"student_id": student.ID,
					"course_id":  c.ID,
				}).Warn("Performance prediction failed, using neutral score")
			} else {
				score := prediction.PredictedGrade / 100.0
				if score < 0 {
					score = 0
				}
				if score > 1 {
					score = 1
				}
				record.Score = score
				record.Note = fmt.Sprintf("predicted grade %.1f (%s)", prediction.PredictedGrade, prediction.RiskLevel)
			}
		}

		records[c.ID] = record
	}

	return records
}

// CollaborativeScores scores candidates by how many similar students
// completed them, normalized by the most popular candidate. Without peers
// every candidate gets the neutral score.
func (s *ScorerService) CollaborativeScores(ctx context.Context, student *models.StudentProfile, candidates []models.Course) map[string]models.ScoreRecord {
	peers, err := s.peers.SimilarStudents(ctx, student)
	if err != nil {
		s.logger.WithError(err).WithField("student_id", student.ID).Warn("Peer lookup failed, using neutral collaborative scores")
		peers = nil
	}

	records := make(map[string]models.ScoreRecord, len(candidates))

	if len(peers) == 0 {
		for _, c := range candidates {
			records[c.ID] = models.ScoreRecord{
				CourseID: c.ID,
				Strategy: models.StrategyCollaborative,
				Score:    neutralScore,
				Note:     "no similar students found",
			}
		}
		return records
	}

	counts := make(map[string]int, len(candidates))
	maxCount := 0
	for _, peer := range peers {
		peerCompleted := peer.CompletedSet()
		for _, c := range candidates {
			if peerCompleted[c.ID] {
				counts[c.ID]++
				if counts[c.ID] > maxCount {
					maxCount = counts[c.ID]
				}
			}
		}
	}

	if maxCount == 0 {
		for _, c := range candidates {
			records[c.ID] = models.ScoreRecord{
				CourseID: c.ID,
				Strategy: models.StrategyCollaborative,
				Score:    neutralScore,
				Note:     "no overlap with similar students",
			}
		}
		return records
	}

	for _, c := range candidates {
		count := counts[c.ID]
		records[c.ID] = models.ScoreRecord{
			CourseID: c.ID,
			Strategy: models.StrategyCollaborative,
			Score:    float64(count) / float64(maxCount),
			Note:     fmt.Sprintf("completed by %d of %d similar students", count, len(peers)),
		}
	}

	return records
}
