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

// ContentClient is the engine's view of a remote content service.
type ContentClient struct {
	base
}

func NewContentClient(baseURL string, opts ...Option) *ContentClient {
	return &ContentClient{base: newBase(baseURL, opts...)}
}

func (c *ContentClient) Catalog(ctx context.Context, quizID string) (domain.Catalog, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/catalogs/"+escape(quizID), nil)
	if err != nil {
		return domain.Catalog{}, mapNotFound(err, domain.ErrCatalogNotFound)
	}
	var catalog domain.Catalog
	if err := json.Unmarshal(resp, &catalog); err != nil {
		return domain.Catalog{}, fmt.Errorf("unmarshal catalog: %w", err)
	}
	return catalog, nil
}

func (c *ContentClient) CheckAnswer(ctx context.Context, quizID, itemID string, answer domain.Answer) (bool, error) {
	body, err := json.Marshal(struct {
		Answer domain.Answer `json:"answer"`
	}{Answer: answer})
	if err != nil {
		return false, fmt.Errorf("marshal request: %w", err)
	}

	path := fmt.Sprintf("/api/catalogs/%s/items/%s/check", escape(quizID), escape(itemID))
	resp, err := c.doRequest(ctx, http.MethodPost, path, bytes.NewReader(body))
	if err != nil {
		return false, mapNotFound(err, domain.ErrItemNotFound)
	}

	var result struct {
		Correct *bool `json:"correct"`
	}
	if err := json.Unmarshal(resp, &result); err != nil {
		return false, fmt.Errorf("unmarshal check: %w", err)
	}
	if result.Correct == nil {
		return false, errors.New("check response without verdict")
	}
	return *result.Correct, nil
}

func mapNotFound(err error, sentinel error) error {
	var statusErr *StatusError
	if errors.As(err, &statusErr) && statusErr.Status == http.StatusNotFound {
		return fmt.Errorf("%w: %s", sentinel, statusErr.Message)
	}
	return err
}
