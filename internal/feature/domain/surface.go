package domain

import "strings"

// DefaultSurface is the primary API surface, used when neither host nor
// origin matches a table entry. Unrecognized surfaces fall back here instead
// of being rejected; route patterns for other surfaces simply won't match.
const DefaultSurface = "api-users"

// SurfaceEntry maps a host/origin substring to an API surface name.
type SurfaceEntry struct {
	HostContains string
	Surface      string
}

// SurfaceTable identifies which API surface a request targets from its host
// and origin headers. Entries are checked in order; first substring match
// wins. The table is built once at startup and read-only afterwards.
type SurfaceTable struct {
	entries        []SurfaceEntry
	defaultSurface string
}

// NewSurfaceTable builds a surface table. An empty defaultSurface falls back
// to DefaultSurface.
func NewSurfaceTable(defaultSurface string, entries []SurfaceEntry) *SurfaceTable {
	if defaultSurface == "" {
		defaultSurface = DefaultSurface
	}
	return &SurfaceTable{entries: entries, defaultSurface: defaultSurface}
}

// Identify returns the surface for the given host/origin pair.
func (t *SurfaceTable) Identify(host, origin string) string {
	for _, entry := range t.entries {
		if entry.HostContains == "" {
			continue
		}
		if strings.Contains(host, entry.HostContains) || strings.Contains(origin, entry.HostContains) {
			return entry.Surface
		}
	}
	return t.defaultSurface
}

// ParseSurfaceEntries parses the "substring=surface,substring=surface" config
// form into an ordered entry list. Malformed pairs are dropped.
func ParseSurfaceEntries(raw string) []SurfaceEntry {
	if raw == "" {
		return nil
	}

	pairs := strings.Split(raw, ",")
	entries := make([]SurfaceEntry, 0, len(pairs))
	for _, pair := range pairs {
		host, surface, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok || host == "" || surface == "" {
			continue
		}
		entries = append(entries, SurfaceEntry{HostContains: host, Surface: surface})
	}
	return entries
}
