package services

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/stuvia/courserank/internal/predictor"
	"github.com/stuvia/courserank/pkg/models"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.ErrorLevel)
	return logger
}

// fakeEmbedder returns preassigned vectors keyed by input text and records
// every batch it receives.
type fakeEmbedder struct {
	vectors map[string][]float64
	calls   [][]string
	err     error
}

func (f *fakeEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float64, error) {
	f.calls = append(f.calls, append([]string(nil), texts...))
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float64, len(texts))
	for i, text := range texts {
		vector, ok := f.vectors[text]
		if !ok {
			return nil, fmt.Errorf("no vector assigned for %q", text)
		}
		out[i] = vector
	}
	return out, nil
}

// failingPredictor always errors, driving the neutral-score fallback.
type failingPredictor struct{}

func (failingPredictor) PredictPerformance(context.Context, *models.StudentProfile, models.Course) (*predictor.Prediction, error) {
	return nil, fmt.Errorf("prediction service down")
}

// staticPeerSource serves a fixed peer population.
type staticPeerSource struct {
	students []models.StudentProfile
	err      error
}

func (s *staticPeerSource) Students(context.Context) ([]models.StudentProfile, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.students, nil
}

// staticCatalog is a catalog.Source over an in-memory course list.
type staticCatalog struct {
	courses []models.Course
	err     error
}

func (s *staticCatalog) Courses(context.Context) ([]models.Course, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.courses, nil
}

func courseMap(courses []models.Course) map[string]models.Course {
	byID := make(map[string]models.Course, len(courses))
	for _, c := range courses {
		byID[c.ID] = c
	}
	return byID
}
