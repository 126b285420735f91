// Package enhancer wraps the external qualitative-analysis service behind
// a narrow adapter. Every failure mode (transport error, timeout,
// malformed body, missing fields) is normalized into an error the caller
// treats as "enhancement unavailable"; nothing here ever aborts a scoring
// request.
package enhancer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"talentmatch/internal/domain/scoring"

	"go.uber.org/zap"
)

// ErrUnavailable is returned when no qualitative analysis could be
// produced, for whatever underlying reason.
var ErrUnavailable = errors.New("qualitative analysis unavailable")

const defaultTimeout = 8 * time.Second

// ContentGenerator is the transport-level collaborator. The production
// implementation is the Gemini adapter; tests substitute a stub.
type ContentGenerator interface {
	GenerateJSON(ctx context.Context, systemInstruction, prompt string) (string, error)
}

type Client struct {
	generator ContentGenerator
	timeout   time.Duration
	logger    *zap.Logger
}

// New builds an enhancement client. A nil generator is allowed and yields
// a client that always reports ErrUnavailable, which keeps the engine on
// the degraded path when no API key is configured.
func New(generator ContentGenerator, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{generator: generator, timeout: timeout, logger: logger}
}

// qualitativeResponse is the shape requested from the reasoning service.
// Arrays may be missing or null in practice; they default to empty rather
// than failing the call.
type qualitativeResponse struct {
	OverallScore *float64 `json:"overallScore"`
	Insights     []string `json:"insights"`
	Strengths    []string `json:"strengths"`
	Weaknesses   []string `json:"weaknesses"`
	Suggestions  []string `json:"suggestions"`
}

// Analyze requests a qualitative assessment of the candidate against the
// target. The call is bounded by the configured timeout.
func (c *Client) Analyze(ctx context.Context, f scoring.Features, t scoring.Target, deterministicScore int) (*scoring.Qualitative, error) {
	if c == nil || c.generator == nil {
		return nil, ErrUnavailable
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	system := buildSystemInstruction(t.Kind())
	prompt := buildPrompt(f, t, deterministicScore)

	raw, err := c.generator.GenerateJSON(callCtx, system, prompt)
	if err != nil {
		c.logger.Warn("enhancement call failed",
			zap.String("candidate_id", f.CandidateID.String()),
			zap.String("target_kind", string(t.Kind())),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var resp qualitativeResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		c.logger.Warn("enhancement response not parseable",
			zap.String("candidate_id", f.CandidateID.String()),
			zap.Int("response_length", len(raw)),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	q := &scoring.Qualitative{
		Insights:    emptyIfNil(resp.Insights),
		Strengths:   emptyIfNil(resp.Strengths),
		Weaknesses:  emptyIfNil(resp.Weaknesses),
		Suggestions: emptyIfNil(resp.Suggestions),
	}
	if resp.OverallScore != nil {
		q.OverallScore = int(*resp.OverallScore)
	}

	return q, nil
}

func emptyIfNil(xs []string) []string {
	if xs == nil {
		return []string{}
	}
	return xs
}
