// internal/source/genai.go
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"testcase-ranker/internal/common/errors"
	httpclient "testcase-ranker/internal/common/http"
	"testcase-ranker/internal/common/logger"
	"testcase-ranker/internal/models"
)

const (
	genAISourceName  = "genai"
	defaultProvider  = "openai"
	defaultModel     = "gpt-4o-mini"
)

type GenAIOptions struct {
	BaseURL      string
	APIKey       string
	Provider     string
	Model        string
	Timeout      time.Duration
	DocumentPath string
}

// GenAISource sends extracted document text to a parsing service and reads
// back candidate records. The call is made exactly once per Fetch.
type GenAISource struct {
	opts   GenAIOptions
	client *httpclient.Client
	logger logger.Logger
}

type parseRequest struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
	Text     string `json:"text"`
}

func NewGenAISource(opts GenAIOptions, log logger.Logger) *GenAISource {
	if opts.Provider == "" {
		opts.Provider = defaultProvider
	}
	if opts.Model == "" {
		opts.Model = defaultModel
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	return &GenAISource{
		opts:   opts,
		client: httpclient.NewClient(opts.Timeout),
		logger: log,
	}
}

func (s *GenAISource) Name() string { return genAISourceName }

func (s *GenAISource) Fetch(ctx context.Context) ([]models.Candidate, error) {
	if s.opts.APIKey == "" {
		return nil, errors.NewUpstreamFailureError(genAISourceName, fmt.Errorf("API key is not configured"))
	}

	text, err := os.ReadFile(s.opts.DocumentPath)
	if err != nil {
		return nil, errors.NewUpstreamFailureError(genAISourceName, fmt.Errorf("read document text: %w", err))
	}

	s.logger.Info("requesting test case extraction", map[string]interface{}{
		"provider":  s.opts.Provider,
		"model":     s.opts.Model,
		"textBytes": len(text),
	})

	url := strings.TrimRight(s.opts.BaseURL, "/") + "/parse"
	resp, err := s.client.PostJSON(ctx, url, s.opts.APIKey, parseRequest{
		Provider: s.opts.Provider,
		Model:    s.opts.Model,
		Text:     string(text),
	})
	if err != nil {
		return nil, errors.NewUpstreamFailureError(genAISourceName, fmt.Errorf("parser request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.NewUpstreamFailureError(genAISourceName, classifyStatus(resp.StatusCode, httpclient.Snippet(resp))).
			WithMetadata("statusCode", resp.StatusCode)
	}

	var env candidateEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, errors.NewUpstreamFailureError(genAISourceName, fmt.Errorf("decode parser response: %w", err))
	}
	if len(env.TestCases) == 0 {
		return nil, errors.NewUpstreamFailureError(genAISourceName, fmt.Errorf("parser returned no test cases"))
	}

	s.logger.Info("candidates received", map[string]interface{}{
		"count": len(env.TestCases),
	})
	return env.TestCases, nil
}

// classifyStatus turns a non-200 parser response into an operator-facing message.
func classifyStatus(status int, body string) error {
	lower := strings.ToLower(body)
	switch {
	case status == http.StatusUnauthorized || strings.Contains(lower, "invalid_api_key"):
		return fmt.Errorf("invalid API key (status %d)", status)
	case strings.Contains(lower, "insufficient_quota"):
		return fmt.Errorf("API quota exceeded or no credits (status %d)", status)
	case status == http.StatusTooManyRequests || strings.Contains(lower, "rate_limit"):
		return fmt.Errorf("API rate limit reached, try again later (status %d)", status)
	}
	return fmt.Errorf("parser error: status %d: %s", status, body)
}
