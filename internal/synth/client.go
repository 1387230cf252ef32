package synth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"minestock/internal"
	"minestock/internal/config"
)

// Provider is the external collaborator that turns an evaluation
// request into a material profile.
type Provider interface {
	Synthesize(ctx context.Context, req internal.EvaluationRequest) (*internal.MaterialProfile, error)
}

// GeminiClient calls the Generative Language API with a response schema
// constraining the output to the MaterialProfile shape.
type GeminiClient struct {
	cfg        config.Config
	httpClient *http.Client
	limiter    *RateLimiter
}

type generatePart struct {
	Text string `json:"text"`
}

type generateContent struct {
	Parts []generatePart `json:"parts"`
}

type generationConfig struct {
	ResponseMIMEType string         `json:"responseMimeType"`
	ResponseSchema   map[string]any `json:"responseSchema"`
}

type generateRequest struct {
	Contents         []generateContent `json:"contents"`
	GenerationConfig generationConfig  `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []generatePart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func NewGeminiClient(cfg config.Config) *GeminiClient {
	return &GeminiClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: time.Duration(cfg.GeminiTimeoutMs) * time.Millisecond},
		limiter:    NewRateLimiter(cfg.GeminiRateLimitRPS),
	}
}

func (c *GeminiClient) Synthesize(ctx context.Context, req internal.EvaluationRequest) (*internal.MaterialProfile, error) {
	body, err := c.generate(ctx, BuildPrompt(req))
	if err != nil {
		return nil, err
	}

	var profile internal.MaterialProfile
	if err := json.Unmarshal([]byte(body), &profile); err != nil {
		return nil, fmt.Errorf("malformed model response: %w", err)
	}
	return &profile, nil
}

func (c *GeminiClient) generate(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(c.cfg.GeminiAPIKey) == "" {
		return "", errors.New("missing GEMINI_API_KEY")
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent",
		strings.TrimRight(c.cfg.GeminiAPIBaseURL, "/"), c.cfg.GeminiModel)

	payload, err := json.Marshal(generateRequest{
		Contents: []generateContent{{Parts: []generatePart{{Text: prompt}}}},
		GenerationConfig: generationConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   ResponseSchema(),
		},
	})
	if err != nil {
		return "", err
	}

	var lastErr error
	for attempt := 1; attempt <= 4; attempt++ {
		if err := c.limiter.WaitTurn(ctx); err != nil {
			return "", err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
		if err != nil {
			return "", err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-goog-api-key", c.cfg.GeminiAPIKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			if isRetryableStatus(resp.StatusCode) && attempt < 4 {
				backoff := time.Duration(500*(1<<(attempt-1))+rand.Intn(250)) * time.Millisecond
				select {
				case <-ctx.Done():
					return "", ctx.Err()
				case <-time.After(backoff):
				}
				lastErr = fmt.Errorf("gemini status %d", resp.StatusCode)
				continue
			}
			return "", fmt.Errorf("gemini api error: status=%d body=%s", resp.StatusCode, string(body))
		}

		var parsed generateResponse
		if err := json.Unmarshal(body, &parsed); err != nil {
			return "", fmt.Errorf("malformed api envelope: %w", err)
		}
		if parsed.Error != nil {
			return "", fmt.Errorf("gemini api unsuccessful: %s", parsed.Error.Message)
		}
		text := candidateText(parsed)
		if text == "" {
			return "", errors.New("no data returned")
		}
		return text, nil
	}

	if lastErr == nil {
		lastErr = errors.New("gemini request failed")
	}
	return "", lastErr
}

func candidateText(resp generateResponse) string {
	if len(resp.Candidates) == 0 {
		return ""
	}
	b := strings.Builder{}
	for _, part := range resp.Candidates[0].Content.Parts {
		b.WriteString(part.Text)
	}
	return strings.TrimSpace(b.String())
}

func isRetryableStatus(status int) bool {
	switch status {
	case 429, 500, 502, 503, 504:
		return true
	default:
		return false
	}
}
