package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/stuvia/courserank/internal/config"
	"github.com/stuvia/courserank/pkg/models"
)

// HTTPClient calls a remote prediction service. The request timeout bounds
// every call; the service must not block a recommendation indefinitely.
type HTTPClient struct {
	endpoint   string
	httpClient *http.Client
	logger     *logrus.Logger
}

func NewHTTPClient(cfg config.PredictorConfig, logger *logrus.Logger) *HTTPClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &HTTPClient{
		endpoint:   cfg.Endpoint,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type predictRequest struct {
	StudentID          string             `json:"student_id"`
	AverageGrade       float64            `json:"avg_grade"`
	CoursesCompleted   int                `json:"courses_completed"`
	ActiveEnrollments  int                `json:"active_enrollments"`
	PerformanceSummary map[string]float64 `json:"performance_summary,omitempty"`
	CourseName         string             `json:"course_name"`
}

func (c *HTTPClient) PredictPerformance(ctx context.Context, student *models.StudentProfile, course models.Course) (*Prediction, error) {
	body, err := json.Marshal(predictRequest{
		StudentID:          student.ID,
		AverageGrade:       student.AverageGrade(),
		CoursesCompleted:   len(student.CompletedCourseIDs),
		ActiveEnrollments:  len(student.EnrolledCourseIDs),
		PerformanceSummary: student.PerformanceSummary,
		CourseName:         course.Name,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal prediction request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create prediction request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("prediction request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("prediction api error (status %d): %s", resp.StatusCode, respBody)
	}

	var prediction Prediction
	if err := json.Unmarshal(respBody, &prediction); err != nil {
		return nil, fmt.Errorf("parse prediction response: %w", err)
	}
	if prediction.RiskLevel == "" {
		prediction.RiskLevel = RiskLevelFor(prediction.PredictedGrade)
	}

	return &prediction, nil
}
