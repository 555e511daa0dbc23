package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"codex_cli/pkg/config"
)

const modelCacheFilename = "models_cache.json"

// ModelInfo is one locally available model as reported by /api/tags.
type ModelInfo struct {
	Name       string       `json:"name"`
	ModifiedAt time.Time    `json:"modified_at"`
	Size       int64        `json:"size"`
	Details    ModelDetails `json:"details"`
}

// ModelDetails carries the descriptive fields shown in listings.
type ModelDetails struct {
	Family            string `json:"family"`
	ParameterSize     string `json:"parameter_size"`
	QuantizationLevel string `json:"quantization_level"`
}

type tagsResponse struct {
	Models []ModelInfo `json:"models"`
}

// ModelCache stores the last successful model list with a timestamp.
type ModelCache struct {
	UpdatedAt time.Time   `json:"updated_at"`
	Models    []ModelInfo `json:"models"`
}

// DefaultModelCachePath returns the default path for the model cache file.
func DefaultModelCachePath() string {
	return filepath.Join(config.Dir(), modelCacheFilename)
}

// ListModels fetches the server's model list, sorted by name. Not retried.
func (c *Client) ListModels(ctx context.Context) ([]ModelInfo, error) {
	tagsURL, err := buildTagsURL(c.URL)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, tagsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create models request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if key := c.getenv(c.APIKeyEnv); key != "" {
		req.Header.Set("Authorization", "Bearer "+key)
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &TransportError{Op: "fetch models", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var payload tagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode models response: %w", err)
	}

	sort.Slice(payload.Models, func(i, j int) bool {
		return payload.Models[i].Name < payload.Models[j].Name
	})
	return payload.Models, nil
}

// CachedModels fetches the model list and refreshes the cache at path.
// When the server cannot be reached the cached list is returned instead,
// with stale set.
func (c *Client) CachedModels(ctx context.Context, path string) (cache ModelCache, stale bool, err error) {
	models, fetchErr := c.ListModels(ctx)
	if fetchErr == nil {
		cache = ModelCache{UpdatedAt: time.Now().UTC(), Models: models}
		if err := SaveModelCache(path, cache); err != nil {
			c.logger().Warn("model_cache_save_failed", "path", path, "error", err)
		}
		return cache, false, nil
	}
	if ctx.Err() != nil {
		return ModelCache{}, false, fetchErr
	}

	cached, loadErr := LoadModelCache(path)
	if loadErr != nil {
		return ModelCache{}, false, fetchErr
	}
	c.logger().Warn("model_list_from_cache", "path", path, "updated_at", cached.UpdatedAt, "error", fetchErr)
	return cached, true, nil
}

// LoadModelCache loads the model cache from disk.
func LoadModelCache(path string) (ModelCache, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ModelCache{}, err
	}

	var cache ModelCache
	if err := json.Unmarshal(data, &cache); err != nil {
		return ModelCache{}, fmt.Errorf("parse model cache: %w", err)
	}
	return cache, nil
}

// SaveModelCache writes the model cache to disk.
func SaveModelCache(path string, cache ModelCache) error {
	data, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal model cache: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create model cache directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write model cache: %w", err)
	}
	return nil
}

// buildTagsURL maps .../api/generate to .../api/tags.
func buildTagsURL(apiURL string) (string, error) {
	trimmed := strings.TrimSpace(apiURL)
	if trimmed == "" {
		return "", fmt.Errorf("api url is required")
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("invalid api url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("api url must include scheme and host")
	}

	basePath := strings.TrimRight(parsed.Path, "/")
	basePath = strings.TrimSuffix(basePath, "/generate")
	parsed.Path = basePath + "/tags"
	parsed.RawQuery = ""
	return parsed.String(), nil
}
