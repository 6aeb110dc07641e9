// Package domain defines the navigation menu catalog.
// Menus are declared in an embedded JSON document and filtered per caller
// based on the capability keys the caller holds.
package domain

import (
	_ "embed"
	"encoding/json"
	"log/slog"

	apperrors "github.com/allisson/userhub/internal/errors"
	featureDomain "github.com/allisson/userhub/internal/feature/domain"
)

//go:embed menus.json
var embeddedMenus []byte

// ErrDuplicateMenuKey indicates two menu entries share the same key.
var ErrDuplicateMenuKey = apperrors.Wrap(apperrors.ErrInvalidInput, "duplicate menu key")

// Menu represents a single navigation menu entry. Entries with an empty
// Feature are visible to every authenticated caller.
type Menu struct {
	Key      string `json:"key"`
	Label    string `json:"label"`
	Icon     string `json:"icon"`
	Path     string `json:"path"`
	Feature  string `json:"feature"`
	Children []Menu `json:"children,omitempty"`
}

// Catalog holds the full menu tree loaded at startup.
type Catalog struct {
	menus []Menu
}

// LoadCatalog parses a menu catalog from raw JSON. Feature keys are
// normalized so lookups against the capability catalog always agree.
// Duplicate keys at the same level abort the load.
func LoadCatalog(raw []byte, catalog *featureDomain.Catalog, logger *slog.Logger) (*Catalog, error) {
	var menus []Menu
	if err := json.Unmarshal(raw, &menus); err != nil {
		return nil, apperrors.Wrap(err, "failed to parse menu catalog")
	}

	if err := prepare(menus, catalog, logger); err != nil {
		return nil, err
	}

	return &Catalog{menus: menus}, nil
}

// DefaultCatalog loads the menu catalog embedded in the binary.
func DefaultCatalog(catalog *featureDomain.Catalog, logger *slog.Logger) (*Catalog, error) {
	return LoadCatalog(embeddedMenus, catalog, logger)
}

func prepare(menus []Menu, catalog *featureDomain.Catalog, logger *slog.Logger) error {
	seen := make(map[string]struct{}, len(menus))
	for i := range menus {
		if _, ok := seen[menus[i].Key]; ok {
			return apperrors.Wrap(ErrDuplicateMenuKey, menus[i].Key)
		}
		seen[menus[i].Key] = struct{}{}

		if menus[i].Feature != "" {
			menus[i].Feature = featureDomain.NormalizeKey(menus[i].Feature)
			if !catalog.IsValidKey(menus[i].Feature) {
				logger.Warn("menu references unknown capability",
					"menu_key", menus[i].Key,
					"feature", menus[i].Feature,
				)
			}
		}

		if err := prepare(menus[i].Children, catalog, logger); err != nil {
			return err
		}
	}
	return nil
}

// Menus returns the full unfiltered menu tree.
func (c *Catalog) Menus() []Menu {
	return c.menus
}

// VisibleTo returns the menu entries visible to a caller holding the given
// capability keys. A parent entry is kept when the caller holds its own
// capability or any of its children remain visible.
func (c *Catalog) VisibleTo(permissions []string) []Menu {
	held := make(map[string]struct{}, len(permissions))
	for _, p := range permissions {
		held[p] = struct{}{}
	}
	return filterMenus(c.menus, held)
}

func filterMenus(menus []Menu, held map[string]struct{}) []Menu {
	visible := make([]Menu, 0, len(menus))
	for _, m := range menus {
		children := filterMenus(m.Children, held)

		_, holdsOwn := held[m.Feature]
		if m.Feature == "" || holdsOwn || len(children) > 0 {
			m.Children = children
			visible = append(visible, m)
		}
	}
	return visible
}
