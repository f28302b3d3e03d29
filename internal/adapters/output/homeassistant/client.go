package homeassistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"roborock-cleaning-panel/internal/ports"
)

const statesCacheTTL = 2 * time.Second

var ErrNotConfigured = errors.New("Home Assistant not configured")

// supportedDomains are the entity kinds the admin page can pick from.
var supportedDomains = []string{"vacuum.", "select."}

type Client struct {
	url        string
	token      string
	httpClient *http.Client
	log        *slog.Logger
	mu         sync.RWMutex

	cacheStates []map[string]interface{}
	cacheTime   time.Time
}

func NewClient(timeout time.Duration, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

func (c *Client) Configure(url, token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.url = strings.TrimSuffix(url, "/")
	c.token = token
	c.cacheStates = nil
	c.cacheTime = time.Time{}
}

func (c *Client) IsConfigured() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.url != "" && c.token != ""
}

func (c *Client) GetAllEntities(ctx context.Context) ([]ports.HomeAssistantEntity, error) {
	states, err := c.GetRawStates(ctx)
	if err != nil {
		return nil, err
	}

	entities := []ports.HomeAssistantEntity{}
	for _, s := range states {
		entityID, _ := s["entity_id"].(string)
		if !isSupported(entityID) {
			continue
		}

		attributes, _ := s["attributes"].(map[string]interface{})
		name, _ := attributes["friendly_name"].(string)
		if name == "" {
			name = entityID
		}

		entities = append(entities, ports.HomeAssistantEntity{
			EntityID:     entityID,
			FriendlyName: name,
		})
	}

	return entities, nil
}

func (c *Client) GetRawStates(ctx context.Context) ([]map[string]interface{}, error) {
	c.mu.RLock()
	if c.cacheStates != nil && time.Since(c.cacheTime) < statesCacheTTL {
		res := c.cacheStates
		c.mu.RUnlock()
		return res, nil
	}
	c.mu.RUnlock()

	resp, err := c.do(ctx, http.MethodGet, "/api/states", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var states []map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&states); err != nil {
		return nil, fmt.Errorf("decode states: %w", err)
	}

	// Strip large attributes to save RAM
	for _, s := range states {
		if attr, ok := s["attributes"].(map[string]interface{}); ok {
			delete(attr, "entity_picture")
			delete(attr, "entity_picture_local")
			delete(attr, "map_image")
		}
	}

	c.mu.Lock()
	c.cacheStates = states
	c.cacheTime = time.Now()
	c.mu.Unlock()

	return states, nil
}

// GetState looks the entity up in the cached state list.
func (c *Client) GetState(ctx context.Context, entityID string) (*ports.EntityState, error) {
	states, err := c.GetRawStates(ctx)
	if err != nil {
		return nil, err
	}
	for _, s := range states {
		if id, _ := s["entity_id"].(string); id != entityID {
			continue
		}
		state, _ := s["state"].(string)
		attributes, _ := s["attributes"].(map[string]interface{})
		return &ports.EntityState{EntityID: entityID, State: state, Attributes: attributes}, nil
	}
	return nil, fmt.Errorf("%w: %s", ports.ErrEntityNotFound, entityID)
}

func (c *Client) CallService(ctx context.Context, domain, service string, data map[string]interface{}) error {
	if data == nil {
		data = map[string]interface{}{}
	}
	body, err := json.Marshal(data)
	if err != nil {
		return err
	}

	c.log.Debug("calling service", "domain", domain, "service", service, "data", data)
	resp, err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/services/%s/%s", domain, service), body)
	if err != nil {
		return fmt.Errorf("%s.%s: %w", domain, service, err)
	}
	resp.Body.Close()

	// States changed; the next read must not be served from cache.
	c.mu.Lock()
	c.cacheTime = time.Time{}
	c.mu.Unlock()
	return nil
}

func (c *Client) RenderTemplate(ctx context.Context, template string) (string, error) {
	body, err := json.Marshal(map[string]string{"template": template})
	if err != nil {
		return "", err
	}
	resp, err := c.do(ctx, http.MethodPost, "/api/template", body)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	out, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	c.mu.RLock()
	urlBase := c.url
	token := c.token
	c.mu.RUnlock()

	if urlBase == "" || token == "" {
		return nil, ErrNotConfigured
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, urlBase+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		resp.Body.Close()
		return nil, fmt.Errorf("HA API error: %d", resp.StatusCode)
	}
	return resp, nil
}

func isSupported(entityID string) bool {
	for _, domain := range supportedDomains {
		if strings.HasPrefix(entityID, domain) {
			return true
		}
	}
	return false
}
