package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const tokenCacheKey = "paygate:provider:token"

// tokenRefreshMargin is subtracted from the provider TTL so a cached token is
// never handed out moments before it expires upstream.
const tokenRefreshMargin = 60 * time.Second

var tokenNopLogger = zerolog.Nop()

// TokenSource exchanges client credentials for provider access tokens and
// caches them in Redis until shortly before expiry.
type TokenSource struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	HTTP         *http.Client
	Redis        *redis.Client
	Log          *zerolog.Logger
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// Token returns a valid access token, hitting the OAuth endpoint only on
// cache miss.
func (t *TokenSource) Token(ctx context.Context) (string, error) {
	if t.Redis != nil {
		cached, err := t.Redis.Get(ctx, tokenCacheKey).Result()
		if err == nil && cached != "" {
			return cached, nil
		}
	}

	token, ttl, err := t.fetch(ctx)
	if err != nil {
		return "", err
	}
	if t.Redis != nil && ttl > 0 {
		if err := t.Redis.Set(ctx, tokenCacheKey, token, ttl).Err(); err != nil {
			t.logger().Warn().Err(err).Msg("provider_token_cache_failed")
		}
	}
	return token, nil
}

// Invalidate drops the cached token, forcing the next call to re-authenticate.
func (t *TokenSource) Invalidate(ctx context.Context) {
	if t.Redis == nil {
		return
	}
	_ = t.Redis.Del(ctx, tokenCacheKey).Err()
}

func (t *TokenSource) fetch(ctx context.Context) (string, time.Duration, error) {
	form := url.Values{"grant_type": []string{"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimRight(t.BaseURL, "/")+"/v1/oauth2/token",
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", 0, fmt.Errorf("build token request: %w", err)
	}
	req.SetBasicAuth(t.ClientID, t.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	client := t.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("request token: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", 0, fmt.Errorf("token endpoint returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	var parsed tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", 0, fmt.Errorf("decode token response: %w", err)
	}
	if parsed.AccessToken == "" {
		return "", 0, fmt.Errorf("token endpoint returned empty access_token")
	}

	ttl := time.Duration(parsed.ExpiresIn)*time.Second - tokenRefreshMargin
	if ttl < 0 {
		ttl = 0
	}
	return parsed.AccessToken, ttl, nil
}

func (t *TokenSource) logger() *zerolog.Logger {
	if t.Log != nil {
		return t.Log
	}
	return &tokenNopLogger
}
