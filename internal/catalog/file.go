// Package catalog loads the read-only course catalog. Sources are loaded
// once per process lifetime; hot reload is out of scope.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/xeipuuv/gojsonschema"

	"github.com/stuvia/courserank/pkg/models"
)

// Source yields the full list of catalog courses.
type Source interface {
	Courses(ctx context.Context) ([]models.Course, error)
}

// courseListSchema validates the catalog file before unmarshalling so a
// malformed entry fails loudly at startup instead of scoring garbage later.
const courseListSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id", "name", "difficulty"],
    "properties": {
      "id": {"type": "string", "minLength": 1},
      "name": {"type": "string", "minLength": 1},
      "description": {"type": "string"},
      "learning_objectives": {"type": "array", "items": {"type": "string"}},
      "prerequisites": {"type": "array", "items": {"type": "string"}},
      "difficulty": {"type": "string", "enum": ["beginner", "intermediate", "advanced"]},
      "category": {"type": "string"}
    },
    "additionalProperties": false
  }
}`

// FileSource reads courses from a JSON file.
type FileSource struct {
	path   string
	schema *gojsonschema.Schema
	logger *logrus.Logger
}

func NewFileSource(path string, logger *logrus.Logger) (*FileSource, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(courseListSchema))
	if err != nil {
		return nil, fmt.Errorf("compile catalog schema: %w", err)
	}
	return &FileSource{path: path, schema: schema, logger: logger}, nil
}

func (s *FileSource) Courses(ctx context.Context) ([]models.Course, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", models.ErrCatalogUnavailable, s.path, err)
	}

	result, err := s.schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: validate %s: %v", models.ErrCatalogUnavailable, s.path, err)
	}
	if !result.Valid() {
		for _, desc := range result.Errors() {
			s.logger.WithField("path", s.path).Errorf("Invalid catalog entry: %s", desc)
		}
		return nil, fmt.Errorf("%w: %s failed schema validation (%d errors)",
			models.ErrCatalogUnavailable, s.path, len(result.Errors()))
	}

	var courses []models.Course
	if err := json.Unmarshal(data, &courses); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", models.ErrCatalogUnavailable, s.path, err)
	}

	s.logger.WithFields(logrus.Fields{
		"path":    s.path,
		"courses": len(courses),
	}).Info("Course catalog loaded")

	return courses, nil
}
