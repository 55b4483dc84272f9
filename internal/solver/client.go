package solver

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

	"github.com/Ninjax26/Classroom-scheduler/internal/dto"
	"github.com/Ninjax26/Classroom-scheduler/pkg/config"
)

const (
	healthPath   = "/health"
	generatePath = "/generate-timetable"
)

// Client talks to the external timetable solver over HTTP. Requests are issued
// serially; the client never retries and never caches responses.
type Client struct {
	baseURL      string
	client       *http.Client
	healthClient *http.Client
	logger       *zap.Logger
}

// New constructs a solver client from configuration.
func New(cfg config.SolverConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	healthTimeout := cfg.HealthTimeout
	if healthTimeout <= 0 {
		healthTimeout = 2 * time.Second
	}
	return &Client{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		client:       &http.Client{Timeout: timeout},
		healthClient: &http.Client{Timeout: healthTimeout},
		logger:       logger,
	}
}

// Health probes the solver liveness endpoint. Any transport failure or
// non-2xx status counts as unavailable.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+healthPath, nil)
	if err != nil {
		return fmt.Errorf("build health request: %w", err)
	}

	start := time.Now()
	resp, err := c.healthClient.Do(req)
	if err != nil {
		c.logger.Warn("solver health probe failed",
			zap.String("url", c.baseURL+healthPath),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return fmt.Errorf("solver health probe: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		c.logger.Warn("solver health probe returned non-success status",
			zap.Int("status", resp.StatusCode),
		)
		return fmt.Errorf("solver health probe: status %d", resp.StatusCode)
	}

	return nil
}

// Generate submits one scheduling request and decodes the solver's assignment
// response. The solver owns all scheduling semantics; a partial assignment is
// still a successful call.
func (c *Client) Generate(ctx context.Context, request dto.SolverRequest) (*dto.SolverResponse, error) {
	payload, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("encode solver request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+generatePath, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build solver request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("submit solver request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail := readErrorDetail(resp.Body)
		return nil, fmt.Errorf("solver returned status %d: %s", resp.StatusCode, detail)
	}

	var result dto.SolverResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode solver response: %w", err)
	}

	c.logger.Info("solver generation completed",
		zap.Int("events", len(request.Events)),
		zap.Int("assigned", len(result.TimeAssignment)),
		zap.Int("unassigned", len(result.Unassigned)),
		zap.Duration("elapsed", time.Since(start)),
	)

	return &result, nil
}

// readErrorDetail extracts the solver's error detail field when present.
func readErrorDetail(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(raw) == 0 {
		return "no detail"
	}
	var parsed struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(raw, &parsed); err == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return strings.TrimSpace(string(raw))
}
