package gemini

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"text/template"
	"time"

	"github.com/xavierca1/calldesk/internal/entity"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel   = "gemini-2.5-flash"
)

var ErrMissingAPIKey = entity.ErrGeneratorNotConfigured

//go:embed prompt.tmpl
var promptText string

var promptTmpl = template.Must(template.New("prompt").Parse(promptText))

type Client struct {
	apiKey  string
	model   string
	baseURL string
	company string
	http    *http.Client
}

func NewClient(apiKey, model, company string) *Client {
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		apiKey:  strings.TrimSpace(apiKey),
		model:   model,
		baseURL: DefaultBaseURL,
		company: company,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// WithBaseURL points the client at another endpoint, e.g. a test server.
func (c *Client) WithBaseURL(u string) *Client {
	c.baseURL = strings.TrimRight(u, "/")
	return c
}

func (c *Client) GenerateScript(ctx context.Context, lead entity.Lead, caller string) (string, error) {
	if c.apiKey == "" {
		return "", ErrMissingAPIKey
	}

	prompt, err := c.buildPrompt(lead, caller)
	if err != nil {
		return "", err
	}

	payload, err := json.Marshal(GenerateContentRequest{
		Contents: []Content{{Role: "user", Parts: []Part{{Text: prompt}}}},
	})
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, url.PathEscape(c.model))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("gemini read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error.Message != "" {
			return "", fmt.Errorf("gemini: %d %s: %s", resp.StatusCode, apiErr.Error.Status, apiErr.Error.Message)
		}
		return "", fmt.Errorf("gemini: %d - %s", resp.StatusCode, string(body))
	}

	var out GenerateContentResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("gemini decode: %w", err)
	}
	return out.Text(), nil
}

func (c *Client) buildPrompt(lead entity.Lead, caller string) (string, error) {
	var b strings.Builder
	err := promptTmpl.Execute(&b, promptData{
		Company: c.company,
		Caller:  caller,
		Name:    lead.Name,
		Phone:   lead.Phone,
		LeadCo:  lead.Company,
		Role:    lead.Role,
		Notes:   lead.Notes,
	})
	if err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return b.String(), nil
}
