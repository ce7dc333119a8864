package providers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"sync"
	"time"
)

// Client talks to the external game provider's REST API: bearer token
// acquisition, catalog listing and launch URL creation. Access tokens are
// cached in memory until shortly before expiry.
type Client struct {
	BaseURL     string
	AgentCode   string
	AgentSecret string

	http *http.Client

	mu       sync.Mutex
	token    string
	tokenExp time.Time
}

type CatalogGame struct {
	Code       string  `json:"game_code"`
	Slug       string  `json:"slug"`
	Name       string  `json:"name"`
	Category   string  `json:"category"`
	RTP        float64 `json:"rtp"`
	Volatility string  `json:"volatility"`
}

var defaultClient *Client

// Default returns the client configured from the environment, or nil when
// the provider is not configured.
func Default() *Client {
	return defaultClient
}

func Setup() {
	base := os.Getenv("PROVIDER_API_URL")
	if base == "" {
		log.Println("⚠️  Game provider client disabled (PROVIDER_API_URL not set)")
		return
	}
	defaultClient = &Client{
		BaseURL:     base,
		AgentCode:   os.Getenv("PROVIDER_AGENT_CODE"),
		AgentSecret: os.Getenv("PROVIDER_AGENT_SECRET"),
		http:        &http.Client{Timeout: 10 * time.Second},
	}
	RegisterProvider("default", defaultClient)
	log.Println("✅ Game provider client at", base)
}

// authToken returns a cached bearer token, re-authenticating when the cached
// one is within 30 seconds of expiry.
func (c *Client) authToken() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Until(c.tokenExp) > 30*time.Second {
		return c.token, nil
	}

	payload := map[string]any{
		"agent_code":   c.AgentCode,
		"agent_secret": c.AgentSecret,
	}
	body, _ := json.Marshal(payload)

	resp, err := c.http.Post(c.BaseURL+"/auth/token", "application/json", bytes.NewBuffer(body))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("provider auth failed: %s", resp.Status)
	}

	var result struct {
		Token     string `json:"token"`
		ExpiresIn int64  `json:"expires_in"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return "", err
	}
	if result.Token == "" {
		return "", fmt.Errorf("provider auth returned empty token")
	}

	c.token = result.Token
	c.tokenExp = time.Now().Add(time.Duration(result.ExpiresIn) * time.Second)
	return c.token, nil
}

func (c *Client) doJSON(method, path string, payload any, out any) error {
	token, err := c.authToken()
	if err != nil {
		return err
	}

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewBuffer(raw)
	}

	req, err := http.NewRequest(method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("provider %s %s: %s", method, path, resp.Status)
	}
	return json.Unmarshal(raw, out)
}

// ListGames fetches the full provider catalog.
func (c *Client) ListGames() ([]CatalogGame, error) {
	var result struct {
		Games []CatalogGame `json:"games"`
	}
	if err := c.doJSON(http.MethodGet, "/games", nil, &result); err != nil {
		return nil, err
	}
	return result.Games, nil
}

// StartGame creates a provider session and returns the launch URL.
func (c *Client) StartGame(req LaunchRequest) (string, error) {
	var result struct {
		LaunchURL string `json:"launch_url"`
	}
	payload := map[string]any{
		"user_code": req.UserCode,
		"game_code": req.GameCode,
		"lang":      req.Lang,
		"platform":  req.Platform,
		"currency":  req.Currency,
		"ip":        req.IP,
	}
	if err := c.doJSON(http.MethodPost, "/sessions", payload, &result); err != nil {
		return "", err
	}
	if result.LaunchURL == "" {
		return "", fmt.Errorf("provider returned empty launch_url")
	}
	return result.LaunchURL, nil
}
