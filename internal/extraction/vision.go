package extraction

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const (
	defaultVisionBaseURL = "https://api.openai.com/v1/chat/completions"
	defaultVisionModel   = "gpt-4o-mini"
	defaultVisionTimeout = 30 * time.Second

	maxVisionResponseBytes = 1 << 20

	visionSystemPrompt = "You are an assistant that analyzes screenshots from Destiny 2 that show player information " +
		"to identify the bungie id displayed in the form of NAME#CODE (for example FOO#1234). " +
		"You must always return JSON strictly matching this schema: " +
		"id_str: the bungie id string found in the screenshot. " +
		"confidence: a floating-point score between 0 and 1."
	visionUserPrompt = "Find the bungie id in the form of NAME#CODE (i.e. FOO#1234) in this image."
)

// VisionConfig captures the runtime settings required to talk to the remote
// vision model.
type VisionConfig struct {
	APIKey         string
	BaseURL        string
	Model          string
	TimeoutSeconds int
}

// VisionEngine extracts identifiers by sending the screenshot to a remote
// vision-capable model with a fixed instruction prompt and a JSON-constrained
// response. Unlike the OCR engine, any network, authentication, or
// malformed-response failure is surfaced as an error for the caller to catch.
type VisionEngine struct {
	cfg        VisionConfig
	httpClient *http.Client
}

// VisionOption customizes the engine.
type VisionOption func(*VisionEngine)

// WithVisionHTTPClient overrides the default HTTP client.
func WithVisionHTTPClient(client *http.Client) VisionOption {
	return func(e *VisionEngine) {
		if client != nil {
			e.httpClient = client
		}
	}
}

// NewVisionEngine constructs the remote vision strategy.
func NewVisionEngine(cfg VisionConfig, opts ...VisionOption) *VisionEngine {
	timeout := defaultVisionTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	engine := &VisionEngine{
		cfg: VisionConfig{
			APIKey:         strings.TrimSpace(cfg.APIKey),
			BaseURL:        strings.TrimSpace(cfg.BaseURL),
			Model:          strings.TrimSpace(cfg.Model),
			TimeoutSeconds: cfg.TimeoutSeconds,
		},
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(engine)
	}
	if engine.cfg.BaseURL == "" {
		engine.cfg.BaseURL = defaultVisionBaseURL
	}
	if engine.cfg.Model == "" {
		engine.cfg.Model = defaultVisionModel
	}
	return engine
}

func (e *VisionEngine) Name() string { return string(EngineVision) }

type visionImageURL struct {
	URL string `json:"url"`
}

type visionContent struct {
	Type     string          `json:"type"`
	Text     string          `json:"text,omitempty"`
	ImageURL *visionImageURL `json:"image_url,omitempty"`
}

type visionMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type visionRequest struct {
	Model          string            `json:"model"`
	Messages       []visionMessage   `json:"messages"`
	Temperature    float64           `json:"temperature"`
	ResponseFormat map[string]string `json:"response_format"`
}

type visionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

type visionStatusError struct {
	StatusCode int
	Body       string
}

func (e *visionStatusError) Error() string {
	return fmt.Sprintf("vision extract: http %d: %s", e.StatusCode, strings.TrimSpace(e.Body))
}

// Extract encodes the image and asks the model for the structured
// {id_str, confidence} payload.
func (e *VisionEngine) Extract(ctx context.Context, imagePath string) (Result, error) {
	if e.cfg.APIKey == "" {
		return Result{}, errors.New("vision extract: api key required")
	}

	raw, err := os.ReadFile(imagePath)
	if err != nil {
		return Result{}, fmt.Errorf("vision extract: read image: %w", err)
	}
	encoded := base64.StdEncoding.EncodeToString(raw)

	payload := visionRequest{
		Model: e.cfg.Model,
		Messages: []visionMessage{
			{Role: "system", Content: visionSystemPrompt},
			{Role: "user", Content: []visionContent{
				{Type: "text", Text: visionUserPrompt},
				{Type: "image_url", ImageURL: &visionImageURL{URL: "data:image/jpeg;base64," + encoded}},
			}},
		},
		Temperature:    0,
		ResponseFormat: map[string]string{"type": "json_object"},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return Result{}, fmt.Errorf("vision extract: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.cfg.BaseURL, bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("vision extract: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.cfg.APIKey)

	requestStart := time.Now()
	resp, err := e.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return Result{}, fmt.Errorf("vision extract: execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxVisionResponseBytes))
	if err != nil {
		return Result{}, fmt.Errorf("vision extract: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return Result{}, &visionStatusError{StatusCode: resp.StatusCode, Body: string(data)}
	}

	var parsed visionResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return Result{}, fmt.Errorf("vision extract: decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return Result{}, errors.New("vision extract: response contained no choices")
	}

	var analysis struct {
		IDString   string  `json:"id_str"`
		Confidence float64 `json:"confidence"`
	}
	content := stripJSONFences(parsed.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(content), &analysis); err != nil {
		return Result{}, fmt.Errorf("vision extract: parse payload: %w", err)
	}

	if analysis.Confidence < 0 {
		analysis.Confidence = 0
	}
	if analysis.Confidence > 1 {
		analysis.Confidence = 1
	}
	return Result{IDString: strings.TrimSpace(analysis.IDString), Confidence: analysis.Confidence}, nil
}

// stripJSONFences tolerates models that wrap the JSON payload in a markdown
// code fence despite the response_format constraint.
func stripJSONFences(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	return strings.TrimSpace(content)
}
