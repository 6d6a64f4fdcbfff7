package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"learning-quiz-engine/internal/domain"
)

// ResultsClient submits result records to a remote results service.
type ResultsClient struct {
	base
}

func NewResultsClient(baseURL string, opts ...Option) *ResultsClient {
	return &ResultsClient{base: newBase(baseURL, opts...)}
}

func (c *ResultsClient) SubmitResult(ctx context.Context, record domain.ResultRecord) error {
	body, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	_, err = c.doRequest(ctx, http.MethodPost, "/api/results", bytes.NewReader(body))
	var statusErr *StatusError
	if errors.As(err, &statusErr) && statusErr.Status == http.StatusBadRequest {
		return fmt.Errorf("%w: %s", domain.ErrInvalidResult, statusErr.Message)
	}
	return err
}

func (c *ResultsClient) Get(ctx context.Context, sessionID string) (domain.ResultRecord, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/results/"+escape(sessionID), nil)
	if err != nil {
		return domain.ResultRecord{}, mapNotFound(err, domain.ErrResultNotFound)
	}
	var record domain.ResultRecord
	if err := json.Unmarshal(resp, &record); err != nil {
		return domain.ResultRecord{}, fmt.Errorf("unmarshal record: %w", err)
	}
	return record, nil
}
