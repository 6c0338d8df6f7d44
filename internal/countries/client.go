// Package countries fetches dialling codes for the login form.
package countries

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/Rrens/chatrooms/internal/config"
	"github.com/dgraph-io/ristretto/v2"
	"github.com/rs/zerolog/log"
)

const cacheKey = "all"

// Country is one selectable dialling code
type Country struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

type apiCountry struct {
	Name struct {
		Common string `json:"common"`
	} `json:"name"`
	IDD struct {
		Root     string   `json:"root"`
		Suffixes []string `json:"suffixes"`
	} `json:"idd"`
}

// Client reads the country directory over HTTP and caches the result
type Client struct {
	url    string
	ttl    time.Duration
	client *http.Client
	cache  *ristretto.Cache[string, []Country]
}

// NewClient creates a new country directory client
func NewClient(cfg config.CountriesConfig) (*Client, error) {
	cache, err := ristretto.NewCache(&ristretto.Config[string, []Country]{
		NumCounters: 100,
		MaxCost:     10,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create cache: %w", err)
	}

	return &Client{
		url:    cfg.URL,
		ttl:    cfg.CacheTTL,
		client: &http.Client{Timeout: cfg.Timeout},
		cache:  cache,
	}, nil
}

// List returns all countries with a dialling code, sorted by name
func (c *Client) List(ctx context.Context) ([]Country, error) {
	if cached, ok := c.cache.Get(cacheKey); ok {
		return cached, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch countries: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("country directory returned status %d", resp.StatusCode)
	}

	var raw []apiCountry
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode countries: %w", err)
	}

	list := normalize(raw)
	if c.ttl > 0 {
		c.cache.SetWithTTL(cacheKey, list, 1, c.ttl)
		c.cache.Wait()
	}

	log.Debug().Int("count", len(list)).Msg("Country directory loaded")
	return list, nil
}

// Close releases the cache
func (c *Client) Close() {
	c.cache.Close()
}

func normalize(raw []apiCountry) []Country {
	list := make([]Country, 0, len(raw))
	for _, r := range raw {
		code := r.IDD.Root
		if code != "" && len(r.IDD.Suffixes) > 0 {
			code += r.IDD.Suffixes[0]
		}
		if code == "" {
			continue
		}
		list = append(list, Country{Name: r.Name.Common, Code: code})
	}

	sort.SliceStable(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}
