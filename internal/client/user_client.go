package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"arena-service/config"
	"arena-service/internal/models"
)

// ProfileCache holds cached profile lookups. A nil cache disables
// invalidation; the gateway then refetches on TTL expiry alone.
type ProfileCache interface {
	Delete(ctx context.Context, keys ...string) error
}

// ProfileCacheKey is the cache key for one user's profile. The gateway
// writes under it on lookup; AwardXP deletes it so stale XP never
// outlives the award.
func ProfileCacheKey(userID string) string {
	return "profile:" + userID
}

// UserClient talks to the platform's user service over its internal HTTP
// API: profile lookups for the gateway and XP awards after a game.
type UserClient struct {
	httpClient *http.Client
	baseURL    string
	cache      ProfileCache
}

func NewUserClient(cfg *config.UserServiceConfig, cache ProfileCache) *UserClient {
	return &UserClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    cfg.BaseURL,
		cache:      cache,
	}
}

func (c *UserClient) GetProfile(ctx context.Context, userID string) (*models.Identity, error) {
	url := fmt.Sprintf("%s/internal/users/%s", c.baseURL, userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("user service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("user %s not found", userID)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("user service returned status %d", resp.StatusCode)
	}

	var identity models.Identity
	if err := json.NewDecoder(resp.Body).Decode(&identity); err != nil {
		return nil, fmt.Errorf("failed to decode profile: %w", err)
	}
	return &identity, nil
}

func (c *UserClient) AwardXP(ctx context.Context, userID string, xp int) error {
	url := fmt.Sprintf("%s/internal/users/%s/xp", c.baseURL, userID)
	body, err := json.Marshal(map[string]int{"amount": xp})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("user service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("user service returned status %d", resp.StatusCode)
	}

	if c.cache != nil {
		if err := c.cache.Delete(ctx, ProfileCacheKey(userID)); err != nil {
			log.Printf("Failed to invalidate cached profile for %s: %v", userID, err)
		}
	}
	return nil
}
