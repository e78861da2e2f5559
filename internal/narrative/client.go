package narrative

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	DefaultAPIURL = "https://api.anthropic.com/v1/messages"
	DefaultModel  = "claude-haiku-4-5-20251001"

	apiVersion = "2023-06-01"
	maxTokens  = 300
)

var (
	ErrClientDisabled = errors.New("llm client not configured")
	ErrRateLimited    = errors.New("llm rate limit exceeded")
	ErrEmptyResponse  = errors.New("llm returned no content")
)

// ClientConfig configures the LLM-backed generator.
type ClientConfig struct {
	APIKey    string
	URL       string
	Model     string
	MaxPerMin int
	// Assets are the coin names mentioned in the prompt.
	Assets []string
	// HTTPClient overrides the default client. Tests point it at httptest.
	HTTPClient *http.Client
}

// Client generates market news from an LLM messages API.
type Client struct {
	cfg        ClientConfig
	httpClient *http.Client
	log        zerolog.Logger

	// Rate limiting: max calls per minute.
	mu        sync.Mutex
	callCount int
	resetAt   time.Time
}

// NewClient creates a Client.
// Returns nil if the API key is empty (LLM news disabled).
func NewClient(cfg ClientConfig, log zerolog.Logger) *Client {
	if cfg.APIKey == "" {
		return nil
	}
	if cfg.URL == "" {
		cfg.URL = DefaultAPIURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.MaxPerMin <= 0 {
		cfg.MaxPerMin = 20
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		cfg:        cfg,
		httpClient: hc,
		log:        log.With().Str("component", "llm").Logger(),
	}
}

// Enabled returns true if the client has an API key.
func (c *Client) Enabled() bool {
	return c != nil && c.cfg.APIKey != ""
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type request struct {
	Model       string    `json:"model"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
	Messages    []message `json:"messages"`
}

type response struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

// Generate implements Generator.
func (c *Client) Generate(ctx context.Context, day int, venue string) (string, error) {
	if !c.Enabled() {
		return "", ErrClientDisabled
	}
	if err := c.allow(); err != nil {
		return "", err
	}

	body, err := json.Marshal(request{
		Model:       c.cfg.Model,
		MaxTokens:   maxTokens,
		Temperature: 0.9,
		Messages:    []message{{Role: "user", Content: Prompt(day, venue, c.cfg.Assets)}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.cfg.APIKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("api call: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("api error %d: %s", resp.StatusCode, string(respBody))
	}

	var out response
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if len(out.Content) == 0 {
		return "", ErrEmptyResponse
	}

	c.log.Debug().
		Int("input_tokens", out.Usage.InputTokens).
		Int("output_tokens", out.Usage.OutputTokens).
		Msg("llm call")

	return out.Content[0].Text, nil
}

func (c *Client) allow() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	if now.After(c.resetAt) {
		c.callCount = 0
		c.resetAt = now.Add(time.Minute)
	}
	if c.callCount >= c.cfg.MaxPerMin {
		return fmt.Errorf("%w (%d calls/min)", ErrRateLimited, c.cfg.MaxPerMin)
	}
	c.callCount++
	return nil
}

// Prompt builds the news request for a day at a venue.
func Prompt(day int, venue string, assets []string) string {
	var b strings.Builder
	b.WriteString("You are a crypto-market news bot for a game called DEX Wars.\n")
	fmt.Fprintf(&b, "Context: Day %d, Location: %s.\n", day, venue)
	if len(assets) > 0 {
		fmt.Fprintf(&b, "Coins: %s.\n", strings.Join(assets, ", "))
	}
	b.WriteString(`
Generate 3 short, punchy crypto news events.
Culture: Cynical, witty, "crypto-twitter" style.
Specific Vibes: PulseChain, Hexicans, Ethereum maxis, and meme coin mania.
Format: Return 3 bullet points.

Example:
- "SEC chairman spotted at a coffee shop; Markets dump 5% in fear."
- "New PulseChain bridge update goes live; HEX staking volume hits record high!"
- "Pepe whale accidentally burns $2M; deflationary pressure intensifies."

Include a "Whale Alert" for one of the points.
`)
	return b.String()
}
