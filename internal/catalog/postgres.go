package catalog

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"

	"github.com/stuvia/courserank/pkg/models"
)

// DatabaseQuerier is the slice of pgx the Postgres source needs; pgxmock
// satisfies it in tests.
type DatabaseQuerier interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
}

// PostgresSource reads the catalog from a courses table.
type PostgresSource struct {
	db     DatabaseQuerier
	logger *logrus.Logger
}

func NewPostgresSource(db DatabaseQuerier, logger *logrus.Logger) *PostgresSource {
	return &PostgresSource{db: db, logger: logger}
}

func (s *PostgresSource) Courses(ctx context.Context) ([]models.Course, error) {
	query := `
		SELECT id, name, description, learning_objectives, prerequisites, difficulty, category
		FROM courses
		WHERE active = true
		ORDER BY id`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: query courses: %v", models.ErrCatalogUnavailable, err)
	}
	defer rows.Close()

	var courses []models.Course
	for rows.Next() {
		var c models.Course
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.LearningObjectives,
			&c.Prerequisites, &c.Difficulty, &c.Category); err != nil {
			s.logger.WithError(err).Error("Failed to scan course row")
			continue
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: read courses: %v", models.ErrCatalogUnavailable, err)
	}

	s.logger.WithField("courses", len(courses)).Info("Course catalog loaded from database")
	return courses, nil
}
