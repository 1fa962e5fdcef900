package ollama

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"tidy-hq/vesta/pkg/classify"
)

// Config contains the connection settings for a local Ollama instance.
type Config struct {
	// BaseURL is the Ollama API root, e.g. "http://localhost:11434".
	BaseURL string

	// TextModel handles text prompts (classification, value generation).
	// Default: "mistral".
	TextModel string

	// VisionModel handles image content analysis. Default: "pixtral".
	VisionModel string

	// Timeout bounds text completions. Default: 20s.
	Timeout time.Duration

	// ImageTimeout bounds vision completions. Default: 30s.
	ImageTimeout time.Duration

	// HTTPClient overrides the transport; mainly for tests.
	HTTPClient *http.Client
}

// Client talks to Ollama's /api/generate endpoint. It implements
// classify.Collaborator and exposes Complete for the rule generator.
type Client struct {
	baseURL      string
	textModel    string
	visionModel  string
	timeout      time.Duration
	imageTimeout time.Duration
	httpClient   *http.Client
	logger       *slog.Logger
}

// New creates an Ollama-backed collaborator client.
func New(cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("ollama: base URL is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	c := &Client{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		textModel:    cfg.TextModel,
		visionModel:  cfg.VisionModel,
		timeout:      cfg.Timeout,
		imageTimeout: cfg.ImageTimeout,
		httpClient:   cfg.HTTPClient,
		logger:       logger.With("component", "classify.ollama"),
	}
	if c.textModel == "" {
		c.textModel = "mistral"
	}
	if c.visionModel == "" {
		c.visionModel = "pixtral"
	}
	if c.timeout <= 0 {
		c.timeout = 20 * time.Second
	}
	if c.imageTimeout <= 0 {
		c.imageTimeout = 30 * time.Second
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{}
	}
	return c, nil
}

type generateRequest struct {
	Model  string   `json:"model"`
	Prompt string   `json:"prompt"`
	Stream bool     `json:"stream"`
	Images []string `json:"images,omitempty"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// generate performs one synchronous completion bounded by timeout.
func (c *Client) generate(ctx context.Context, model, prompt string, images []string, timeout time.Duration) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	body, err := json.Marshal(generateRequest{
		Model:  model,
		Prompt: prompt,
		Stream: false,
		Images: images,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &classify.ClassificationError{Op: "generate", Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", &classify.ClassificationError{
			Op:    "generate",
			Cause: fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(data))),
		}
	}

	var gr generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return "", &classify.ClassificationError{Op: "generate", Cause: err}
	}
	return strings.TrimSpace(gr.Response), nil
}

// Complete runs a raw text completion against the text model. Used by
// the rule generator, which owns its own prompt contract.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	return c.generate(ctx, c.textModel, prompt, nil, c.timeout)
}

// ClassifyApplication implements classify.Collaborator.
func (c *Client) ClassifyApplication(ctx context.Context, processName, windowTitle string, categories []string) (string, error) {
	prompt := fmt.Sprintf(
		"Classify this application (%s) with window title '%s' into one of these categories: %s. "+
			"Respond with only the category name. If no category fits, reply with 'Other'.",
		processName, windowTitle, strings.Join(categories, ", "),
	)
	return c.generate(ctx, c.textModel, prompt, nil, c.timeout)
}

// ClassifyImage implements classify.Collaborator. The image is sent
// inline as base64, the format Ollama's API expects.
func (c *Client) ClassifyImage(ctx context.Context, imagePath string, categories []string) (string, error) {
	data, err := os.ReadFile(imagePath)
	if err != nil {
		return "", &classify.ClassificationError{Op: "classify-image", Cause: err}
	}

	prompt := "Describe the kind of content in this image with a single lowercase word."
	if len(categories) > 0 {
		prompt = fmt.Sprintf(
			"Categorize this image into one of: %s. Respond with only the category name.",
			strings.Join(categories, ", "),
		)
	}

	encoded := base64.StdEncoding.EncodeToString(data)
	return c.generate(ctx, c.visionModel, prompt, []string{encoded}, c.imageTimeout)
}

// AnalyzeWindowTitle implements classify.Collaborator.
func (c *Client) AnalyzeWindowTitle(ctx context.Context, title string) (string, error) {
	prompt := fmt.Sprintf("Extract game name from this window title: '%s'. Respond only with the name.", title)
	return c.generate(ctx, c.textModel, prompt, nil, c.timeout)
}

// GenerateValue implements classify.Collaborator.
func (c *Client) GenerateValue(ctx context.Context, name string, vars map[string]string) (string, error) {
	prompt := fmt.Sprintf(
		"Based on this file context:\n- Filename: %s\n- Source app: %s\n- Window title: %s\n"+
			"Generate appropriate value for %s. Respond only with the value.",
		vars["filename"], vars["source_app"], vars["window_title"], name,
	)
	return c.generate(ctx, c.textModel, prompt, nil, c.timeout)
}
