package domain

// Decision is the outcome of an access check for one request.
type Decision struct {
	Allowed          bool     `json:"allowed"`
	RequiredFeatures []string `json:"required_features"`
}

// Authorize decides whether a permission set may access the request triple.
//
// It collects every feature with at least one route pattern matching
// (surface, method, path). An empty result means the route is not gated and
// access is allowed regardless of the permission set: the catalog is an
// allow-list of gated routes, not a complete route map, so any route left
// out of it is public to authenticated principals. This fail-open behavior
// is deliberate and load-bearing — a new route that must be gated has to be
// registered under a feature's api-routes or it will be silently open.
//
// When the route is gated, holding any one of the matching features grants
// access (OR semantics). Authorize never fails; missing-principal handling
// belongs to the caller.
func (c *Catalog) Authorize(permissions []string, surface, method, path string) Decision {
	var required []string
	for _, feature := range c.features {
		for _, pattern := range feature.routes {
			if pattern.Matches(surface, method, path) {
				required = append(required, feature.Key)
				break
			}
		}
	}

	if len(required) == 0 {
		return Decision{Allowed: true, RequiredFeatures: []string{}}
	}

	held := make(map[string]struct{}, len(permissions))
	for _, key := range permissions {
		held[key] = struct{}{}
	}

	for _, key := range required {
		if _, ok := held[key]; ok {
			return Decision{Allowed: true, RequiredFeatures: required}
		}
	}

	return Decision{Allowed: false, RequiredFeatures: required}
}
