// Package insight wraps a generative-language HTTP API for study helpers:
// summarizing a note body, suggesting tags for an upload, and generating
// practice questions. All helpers are best-effort decoration; callers fall
// back to showing the raw note when a call fails.
package insight

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"resty.dev/v3"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com"
	defaultModel   = "gemini-2.0-flash"
)

// ErrEmptyCompletion reports a well-formed response carrying no usable
// text.
var ErrEmptyCompletion = errors.New("empty model completion")

// Client calls the generative model.
type Client struct {
	httpClient *resty.Client
	model      string
	apiKey     string
}

// Config selects the endpoint, model and credentials.
type Config struct {
	BaseURL string // empty means the hosted endpoint
	Model   string // empty means the default model
	APIKey  string
}

// NewClient builds an insight client.
func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}

	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetHeader("Content-Type", "application/json")

	return &Client{httpClient: client, model: model, apiKey: cfg.APIKey}
}

// Close releases the underlying HTTP client.
func (c *Client) Close() error {
	return c.httpClient.Close()
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []candidate `json:"candidates"`
}

type candidate struct {
	Content content `json:"content"`
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	body := generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	}

	response, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("key", c.apiKey).
		SetBody(body).
		SetResult(&generateResponse{}).
		Post("/v1beta/models/" + c.model + ":generateContent")
	if err != nil {
		return "", fmt.Errorf("httpClient.Post > %w", err)
	}
	if response.IsError() {
		return "", fmt.Errorf("response error %d: %s", response.StatusCode(), response.String())
	}

	responseBody := response.Result().(*generateResponse)
	if responseBody == nil || len(responseBody.Candidates) == 0 ||
		len(responseBody.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyCompletion
	}

	text := strings.TrimSpace(responseBody.Candidates[0].Content.Parts[0].Text)
	if text == "" {
		return "", ErrEmptyCompletion
	}
	return text, nil
}

// Summarize returns a short summary of the note body.
func (c *Client) Summarize(ctx context.Context, title, body string) (string, error) {
	prompt := fmt.Sprintf(
		"Summarize the following study note titled %q in 3 concise sentences for a student deciding whether to buy it:\n\n%s",
		title, body,
	)
	return c.generate(ctx, prompt)
}

// SuggestTags proposes up to five short topic tags for an upload, one per
// line in the model output.
func (c *Client) SuggestTags(ctx context.Context, title, body string) ([]string, error) {
	prompt := fmt.Sprintf(
		"Suggest up to 5 short topic tags for a study note titled %q. Return one tag per line with no numbering or extra text.\n\n%s",
		title, body,
	)
	text, err := c.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var tags []string
	for _, line := range strings.Split(text, "\n") {
		tag := strings.TrimSpace(strings.TrimLeft(line, "-* \t"))
		if tag == "" {
			continue
		}
		tags = append(tags, tag)
		if len(tags) == 5 {
			break
		}
	}
	if len(tags) == 0 {
		return nil, ErrEmptyCompletion
	}
	return tags, nil
}

// StudyQuestions generates practice questions for a purchased note.
func (c *Client) StudyQuestions(ctx context.Context, title, body string) (string, error) {
	prompt := fmt.Sprintf(
		"Write 5 practice questions (no answers) that test understanding of the study note titled %q:\n\n%s",
		title, body,
	)
	return c.generate(ctx, prompt)
}
