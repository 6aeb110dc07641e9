package domain

import (
	"strings"

	apperrors "github.com/allisson/userhub/internal/errors"
)

// ErrMalformedRoutePattern indicates an encoded route pattern is missing one
// of its two required delimiters. Malformed patterns are skipped at catalog
// load time and never cause a request-time failure.
var ErrMalformedRoutePattern = apperrors.New("malformed route pattern")

// versionPrefixes are the leading path segments stripped during path
// normalization so catalog patterns stay prefix-free. "/api" is the mount
// point of the legacy gateway, "/v1" is this server's own mount point.
var versionPrefixes = []string{"/api", "/v1"}

// RoutePattern gates an API route. It is parsed once at catalog load time
// from the compact encoded form "surface:method:path", where only the first
// two colons are delimiters: path segments may themselves start with ":" to
// declare single-segment wildcards (e.g. "api-users:get:/users/:id").
type RoutePattern struct {
	Surface string
	Method  string
	Path    string

	segments []string
}

// ParseRoutePattern parses the encoded "surface:method:path" form. The method
// is lowercased; the path is normalized and pre-split so request matching
// never re-parses the pattern.
func ParseRoutePattern(encoded string) (RoutePattern, error) {
	first := strings.IndexByte(encoded, ':')
	if first < 0 {
		return RoutePattern{}, apperrors.Wrap(ErrMalformedRoutePattern, encoded)
	}

	second := strings.IndexByte(encoded[first+1:], ':')
	if second < 0 {
		return RoutePattern{}, apperrors.Wrap(ErrMalformedRoutePattern, encoded)
	}
	second += first + 1

	path := encoded[second+1:]

	return RoutePattern{
		Surface:  encoded[:first],
		Method:   strings.ToLower(encoded[first+1 : second]),
		Path:     path,
		segments: splitSegments(NormalizePath(path)),
	}, nil
}

// Matches reports whether the pattern gates the given request triple.
// Surface comparison is exact, method comparison is case-insensitive, and the
// paths must have the same segment count: a ":param" pattern segment matches
// any single request segment, every other segment must be byte-equal. There
// is no trailing-wildcard or variable-length matching.
func (p RoutePattern) Matches(surface, method, path string) bool {
	if p.Surface != surface {
		return false
	}
	if !strings.EqualFold(p.Method, method) {
		return false
	}

	requestSegments := splitSegments(NormalizePath(path))
	if len(requestSegments) != len(p.segments) {
		return false
	}

	for i, patternSegment := range p.segments {
		if strings.HasPrefix(patternSegment, ":") {
			continue
		}
		if patternSegment != requestSegments[i] {
			return false
		}
	}

	return true
}

// NormalizePath strips the query string and a leading version prefix segment,
// and guarantees a single leading slash.
func NormalizePath(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}

	for _, prefix := range versionPrefixes {
		if path == prefix {
			path = "/"
			break
		}
		if strings.HasPrefix(path, prefix+"/") {
			path = path[len(prefix):]
			break
		}
	}

	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	return path
}

// splitSegments splits a path on "/" discarding the empty segments produced
// by leading or trailing slashes.
func splitSegments(path string) []string {
	parts := strings.Split(path, "/")
	segments := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" {
			segments = append(segments, part)
		}
	}
	return segments
}
