// Package domain implements the feature catalog and the route-authorization
// engine: canonical feature keys, route patterns gating API routes, and the
// access decision over a principal's permission set.
package domain

import (
	_ "embed"
	"encoding/json"
	"log/slog"

	apperrors "github.com/allisson/userhub/internal/errors"
)

// ErrDuplicateFeatureKey indicates two catalog entries normalize to the same
// canonical key. An ambiguous catalog cannot safely gate anything, so this
// aborts startup instead of being handled at request time.
var ErrDuplicateFeatureKey = apperrors.New("duplicate feature key in catalog")

//go:embed features.json
var rawCatalogJSON []byte

// Feature is one catalog entry: a permission identifier plus the API routes
// it gates. Features are immutable once loaded.
type Feature struct {
	Key         string   `json:"key"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	APIRoutes   []string `json:"api-routes"`

	routes []RoutePattern
}

// Routes returns the successfully parsed route patterns for the feature.
func (f Feature) Routes() []RoutePattern {
	return f.routes
}

// Catalog is the validated, read-only registry of known features. It is
// loaded once at process start and safe for concurrent use without locking
// because it is never mutated afterwards.
type Catalog struct {
	features []Feature
	index    map[string]int
}

// LoadCatalog validates raw definitions into a Catalog. Keys are normalized
// to canonical form; a collision after normalization fails the load with
// ErrDuplicateFeatureKey. Malformed route patterns are logged and skipped so
// one bad entry cannot take a feature (or the process) down.
func LoadCatalog(raw []Feature, logger *slog.Logger) (*Catalog, error) {
	catalog := &Catalog{
		features: make([]Feature, 0, len(raw)),
		index:    make(map[string]int, len(raw)),
	}

	for _, feature := range raw {
		feature.Key = NormalizeKey(feature.Key)

		if _, exists := catalog.index[feature.Key]; exists {
			return nil, apperrors.Wrap(ErrDuplicateFeatureKey, feature.Key)
		}

		feature.routes = make([]RoutePattern, 0, len(feature.APIRoutes))
		for _, encoded := range feature.APIRoutes {
			pattern, err := ParseRoutePattern(encoded)
			if err != nil {
				if logger != nil {
					logger.Warn("skipping malformed route pattern",
						slog.String("feature", feature.Key),
						slog.String("pattern", encoded),
					)
				}
				continue
			}
			feature.routes = append(feature.routes, pattern)
		}

		catalog.index[feature.Key] = len(catalog.features)
		catalog.features = append(catalog.features, feature)
	}

	return catalog, nil
}

// DefaultCatalog loads the catalog embedded in the binary.
func DefaultCatalog(logger *slog.Logger) (*Catalog, error) {
	var raw []Feature
	if err := json.Unmarshal(rawCatalogJSON, &raw); err != nil {
		return nil, apperrors.Wrap(err, "failed to decode embedded feature catalog")
	}
	return LoadCatalog(raw, logger)
}

// IsValidKey reports whether key (in canonical form) is registered.
func (c *Catalog) IsValidKey(key string) bool {
	_, ok := c.index[key]
	return ok
}

// Get returns the feature registered under the canonical key.
func (c *Catalog) Get(key string) (Feature, bool) {
	i, ok := c.index[key]
	if !ok {
		return Feature{}, false
	}
	return c.features[i], true
}

// Features returns all catalog entries in load order.
func (c *Catalog) Features() []Feature {
	return c.features
}

// Keys returns all canonical keys in load order.
func (c *Catalog) Keys() []string {
	keys := make([]string, len(c.features))
	for i, feature := range c.features {
		keys[i] = feature.Key
	}
	return keys
}
