// Package pokeapi fetches Pokemon attributes from the public PokeAPI.
// Results are never cached; every call goes to the source.
package pokeapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"pokemon-assistant/internal/common/config"
	apperrors "pokemon-assistant/internal/common/errors"
	commonhttp "pokemon-assistant/internal/common/http"
	"pokemon-assistant/internal/common/logger"
	"pokemon-assistant/internal/common/metrics"
	"pokemon-assistant/internal/pokemon/typechart"
)

type Client struct {
	baseURL string
	timeout time.Duration
	http    *commonhttp.Client
	logger  logger.Logger
}

func NewClient(cfg config.PokeAPIConfig, log logger.Logger) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = config.DefaultPokeAPIBaseURL
	}
	return &Client{
		baseURL: baseURL,
		timeout: config.GetDuration(cfg.Timeout),
		http:    commonhttp.NewClient(0).WithRetries(cfg.MaxRetries),
		logger:  logger.ForComponent(log, "pokeapi"),
	}
}

// GetPokemon looks up name (case-insensitive, trimmed). A missing Pokemon is
// reported as an errors.ErrPokemonNotFound StandardError; any other failure
// as errors.ErrPokeAPIRequestFailed.
func (c *Client) GetPokemon(ctx context.Context, name string) (*Pokemon, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return nil, apperrors.NewInvalidRequestError("Pokemon name is required", "empty name")
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	endpoint := fmt.Sprintf("%s/pokemon/%s", c.baseURL, url.PathEscape(name))

	resp, err := c.http.DoWithRetry(ctx, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		return req, nil
	})
	metrics.PokeAPIDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.PokeAPIRequests.WithLabelValues("error").Inc()
		c.logger.Error("PokeAPI request failed", map[string]interface{}{
			"name":  name,
			"error": err.Error(),
		})
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, apperrors.NewPokeAPITimeoutError(err)
		}
		return nil, apperrors.NewPokeAPIRequestFailedError(err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		metrics.PokeAPIRequests.WithLabelValues("not_found").Inc()
		c.logger.Info("Pokemon not found", map[string]interface{}{"name": name})
		return nil, apperrors.NewPokemonNotFoundError(name)
	case resp.StatusCode != http.StatusOK:
		metrics.PokeAPIRequests.WithLabelValues("error").Inc()
		return nil, apperrors.NewPokeAPIRequestFailedError(
			fmt.Errorf("%d %s for url: %s", resp.StatusCode, http.StatusText(resp.StatusCode), endpoint))
	}

	var payload apiPokemon
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		metrics.PokeAPIRequests.WithLabelValues("error").Inc()
		return nil, apperrors.NewPokeAPIRequestFailedError(fmt.Errorf("decode response: %w", err))
	}

	metrics.PokeAPIRequests.WithLabelValues("ok").Inc()
	c.logger.Debug("Fetched Pokemon", map[string]interface{}{
		"name":       name,
		"id":         payload.ID,
		"durationMs": time.Since(start).Milliseconds(),
	})

	return normalize(&payload), nil
}

// ComparePokemon looks up each name in order. Failed lookups are recorded
// in the entry instead of aborting the batch.
func (c *Client) ComparePokemon(ctx context.Context, names []string) []LookupResult {
	results := make([]LookupResult, 0, len(names))
	for _, name := range names {
		p, err := c.GetPokemon(ctx, name)
		if err != nil {
			results = append(results, LookupResult{Query: name, Error: apperrors.AsStandardError(err).Message})
			continue
		}
		results = append(results, LookupResult{Query: name, Pokemon: p})
	}
	return results
}

func normalize(p *apiPokemon) *Pokemon {
	out := &Pokemon{
		Name:      typechart.Capitalize(p.Name),
		ID:        p.ID,
		Types:     make([]string, 0, len(p.Types)),
		Stats:     make(map[string]int, len(p.Stats)),
		Height:    p.Height,
		Weight:    p.Weight,
		Abilities: make([]string, 0, len(p.Abilities)),
	}
	for _, t := range p.Types {
		out.Types = append(out.Types, typechart.Capitalize(t.Type.Name))
	}
	for _, s := range p.Stats {
		out.Stats[strings.ReplaceAll(s.Stat.Name, "-", "_")] = s.BaseStat
	}
	for _, a := range p.Abilities {
		out.Abilities = append(out.Abilities, typechart.Capitalize(strings.ReplaceAll(a.Ability.Name, "-", " ")))
	}
	return out
}
