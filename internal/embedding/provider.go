package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"

	"github.com/stuvia/courserank/internal/config"
	"github.com/stuvia/courserank/pkg/models"
)

// Provider produces fixed-dimensionality embeddings for a batch of texts.
type Provider interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float64, error)
	Dimensions() int
}

// OpenAIProvider talks to an OpenAI-compatible /embeddings endpoint.
// Transient failures (5xx, 429, transport errors) are retried with
// exponential backoff up to the configured attempt budget; client errors
// fail immediately. Any failure is wrapped in models.ErrProvider.
type OpenAIProvider struct {
	endpoint   string
	apiKey     string
	model      string
	dimensions int
	maxRetries uint64
	httpClient *http.Client
	logger     *logrus.Logger
}

func NewOpenAIProvider(cfg config.EmbeddingConfig, logger *logrus.Logger) *OpenAIProvider {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	retries := cfg.MaxRetries
	if retries < 0 {
		retries = 0
	}

	return &OpenAIProvider{
		endpoint:   cfg.Endpoint,
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		dimensions: cfg.Dimensions,
		maxRetries: uint64(retries),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

func (p *OpenAIProvider) Dimensions() int {
	return p.dimensions
}

type embeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
}

func (p *OpenAIProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	body, err := json.Marshal(embeddingRequest{Model: p.model, Input: texts})
	if err != nil {
		return nil, fmt.Errorf("%w: marshal request: %v", models.ErrProvider, err)
	}

	var vectors [][]float64
	operation := func() error {
		result, err := p.doRequest(ctx, body, len(texts))
		if err != nil {
			return err
		}
		vectors = result
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), p.maxRetries), ctx)

	if err := backoff.Retry(operation, policy); err != nil {
		p.logger.WithError(err).WithField("batch_size", len(texts)).
			Error("Embedding provider request failed")
		return nil, fmt.Errorf("%w: %v", models.ErrProvider, err)
	}

	return vectors, nil
}

func (p *OpenAIProvider) doRequest(ctx context.Context, body []byte, count int) ([][]float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("embedding api error (status %d): %s", resp.StatusCode, respBody)
		// Only server-side and rate-limit failures are worth retrying.
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			return nil, err
		}
		return nil, backoff.Permanent(err)
	}

	var parsed embeddingResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, backoff.Permanent(fmt.Errorf("parse embedding response: %w", err))
	}
	if len(parsed.Data) != count {
		return nil, backoff.Permanent(fmt.Errorf(
			"embedding response has %d vectors, expected %d", len(parsed.Data), count))
	}

	sort.Slice(parsed.Data, func(i, j int) bool {
		return parsed.Data[i].Index < parsed.Data[j].Index
	})

	vectors := make([][]float64, len(parsed.Data))
	for i, d := range parsed.Data {
		if p.dimensions > 0 && len(d.Embedding) != p.dimensions {
			return nil, backoff.Permanent(fmt.Errorf(
				"embedding has %d dimensions, expected %d", len(d.Embedding), p.dimensions))
		}
		vectors[i] = d.Embedding
	}
	return vectors, nil
}
