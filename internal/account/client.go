// Package account talks to the remote persistence service that durably
// stores completed assessment results ("save to account").
package account

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cybercaution/cybercaution/internal/results"
	sharedErrors "github.com/cybercaution/cybercaution/internal/shared/errors"
)

const defaultTimeout = 30 * time.Second

// SaveRequest is the payload submitted to the account service.
type SaveRequest struct {
	UserID  string          `json:"user_id"`
	Summary results.Summary `json:"summary"`
}

// Client submits result summaries to the account service. Its contract is
// minimal: submit the object, receive success or failure.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *zap.SugaredLogger
}

// NewClient builds a client for the given service URL. The token is sent as
// X-Auth-Token; an empty token is allowed and surfaces as an
// ErrUnauthenticated response if the service requires one.
func NewClient(baseURL, token string, logger *zap.SugaredLogger) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, sharedErrors.ErrAccountURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     logger,
	}, nil
}

// SaveResult POSTs the summary for the given user. A 401 or 403 maps to
// ErrUnauthenticated so callers can prompt for login instead of showing a
// generic failure. Callers keep the local snapshot on any error so the data
// survives for a retry.
func (c *Client) SaveResult(ctx context.Context, userID string, summary results.Summary) error {
	if userID == "" {
		return sharedErrors.ErrEmptyUserID
	}

	body, err := json.Marshal(SaveRequest{UserID: userID, Summary: summary})
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	url := c.baseURL + "/api/v1/results"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("X-Auth-Token", c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("save result: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return sharedErrors.ErrUnauthenticated
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if c.logger != nil {
			c.logger.Infow("result saved to account",
				"user", userID,
				"assessment_type", summary.AssessmentType,
				"overall_score", summary.OverallScore,
			)
		}
		return nil
	default:
		return fmt.Errorf("account service returned status %d", resp.StatusCode)
	}
}
