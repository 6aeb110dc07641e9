package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRoutePattern(t *testing.T) {
	t.Run("Success_SimplePattern", func(t *testing.T) {
		pattern, err := ParseRoutePattern("api-users:GET:/users")
		require.NoError(t, err)
		assert.Equal(t, "api-users", pattern.Surface)
		assert.Equal(t, "get", pattern.Method)
		assert.Equal(t, "/users", pattern.Path)
	})

	t.Run("Success_PathWithParamColons", func(t *testing.T) {
		pattern, err := ParseRoutePattern("api-users:put:/users/:id/permissions")
		require.NoError(t, err)
		assert.Equal(t, "api-users", pattern.Surface)
		assert.Equal(t, "put", pattern.Method)
		assert.Equal(t, "/users/:id/permissions", pattern.Path)
	})

	t.Run("Failure_MissingBothDelimiters", func(t *testing.T) {
		_, err := ParseRoutePattern("justapath")
		assert.ErrorIs(t, err, ErrMalformedRoutePattern)
	})

	t.Run("Failure_MissingSecondDelimiter", func(t *testing.T) {
		_, err := ParseRoutePattern("api-users:get")
		assert.ErrorIs(t, err, ErrMalformedRoutePattern)
	})
}

func TestRoutePattern_Matches(t *testing.T) {
	mustParse := func(encoded string) RoutePattern {
		pattern, err := ParseRoutePattern(encoded)
		require.NoError(t, err)
		return pattern
	}

	tests := []struct {
		name     string
		pattern  string
		surface  string
		method   string
		path     string
		expected bool
	}{
		{
			name:     "Success_WildcardSegmentMatchesUUID",
			pattern:  "api-x:post:/users/:id",
			surface:  "api-x",
			method:   "POST",
			path:     "/users/123e4567-e89b-12d3-a456-426614174000",
			expected: true,
		},
		{
			name:     "Failure_FewerRequestSegments",
			pattern:  "api-x:post:/users/:id",
			surface:  "api-x",
			method:   "POST",
			path:     "/users",
			expected: false,
		},
		{
			name:     "Failure_ExtraRequestSegment",
			pattern:  "api-x:post:/users/:id",
			surface:  "api-x",
			method:   "POST",
			path:     "/users/123/extra",
			expected: false,
		},
		{
			name:     "Success_MethodCaseInsensitive",
			pattern:  "api-x:POST:/users",
			surface:  "api-x",
			method:   "post",
			path:     "/users",
			expected: true,
		},
		{
			name:     "Failure_SurfaceCaseSensitive",
			pattern:  "api-x:get:/users",
			surface:  "API-X",
			method:   "get",
			path:     "/users",
			expected: false,
		},
		{
			name:     "Failure_WrongSurface",
			pattern:  "api-x:get:/users",
			surface:  "api-y",
			method:   "get",
			path:     "/users",
			expected: false,
		},
		{
			name:     "Success_QueryStringStripped",
			pattern:  "api-x:get:/users",
			surface:  "api-x",
			method:   "get",
			path:     "/users?page=2&limit=10",
			expected: true,
		},
		{
			name:     "Success_ApiPrefixStripped",
			pattern:  "api-x:get:/users/:id",
			surface:  "api-x",
			method:   "get",
			path:     "/api/users/42",
			expected: true,
		},
		{
			name:     "Success_VersionPrefixStripped",
			pattern:  "api-x:get:/users/:id",
			surface:  "api-x",
			method:   "get",
			path:     "/v1/users/42",
			expected: true,
		},
		{
			name:     "Failure_PrefixOnlyStrippedAsSegment",
			pattern:  "api-x:get:/users",
			surface:  "api-x",
			method:   "get",
			path:     "/apiusers",
			expected: false,
		},
		{
			name:     "Success_TrailingSlashIgnored",
			pattern:  "api-x:get:/users",
			surface:  "api-x",
			method:   "get",
			path:     "/users/",
			expected: true,
		},
		{
			name:     "Failure_LiteralSegmentMismatch",
			pattern:  "api-x:get:/users/:id/permissions",
			surface:  "api-x",
			method:   "get",
			path:     "/users/42/groups",
			expected: false,
		},
		{
			name:     "Success_MultipleWildcards",
			pattern:  "api-x:get:/tenants/:tenantId/users/:userId",
			surface:  "api-x",
			method:   "get",
			path:     "/tenants/7/users/42",
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pattern := mustParse(tt.pattern)
			assert.Equal(t, tt.expected, pattern.Matches(tt.surface, tt.method, tt.path))
		})
	}
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "Success_QueryStripped", input: "/users?x=1", expected: "/users"},
		{name: "Success_ApiPrefix", input: "/api/users", expected: "/users"},
		{name: "Success_V1Prefix", input: "/v1/users", expected: "/users"},
		{name: "Success_PrefixExactlyBecomesRoot", input: "/api", expected: "/"},
		{name: "Success_EnsuresLeadingSlash", input: "users", expected: "/users"},
		{name: "Success_NoPrefixUntouched", input: "/groups/1", expected: "/groups/1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizePath(tt.input))
		})
	}
}
