package domain

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	featureDomain "github.com/allisson/userhub/internal/feature/domain"
)

func testFeatureCatalog(t *testing.T) *featureDomain.Catalog {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	catalog, err := featureDomain.LoadCatalog([]featureDomain.Feature{
		{Key: "DASHBOARD"},
		{Key: "USER-MANAGEMENT"},
		{Key: "ACCESS-GROUPS"},
	}, logger)
	require.NoError(t, err)
	return catalog
}

func loadMenus(t *testing.T, raw string) *Catalog {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	catalog, err := LoadCatalog([]byte(raw), testFeatureCatalog(t), logger)
	require.NoError(t, err)
	return catalog
}

const menuFixture = `[
	{"key": "dashboard", "label": "Dashboard", "feature": "dashboard"},
	{"key": "admin", "label": "Administration", "feature": "user-management", "children": [
		{"key": "user-list", "label": "Users", "feature": "user-management"},
		{"key": "access-groups", "label": "Access Groups", "feature": "access-groups"}
	]},
	{"key": "help", "label": "Help", "feature": ""}
]`

func TestLoadCatalog(t *testing.T) {
	t.Run("Success_FeatureKeysNormalized", func(t *testing.T) {
		catalog := loadMenus(t, menuFixture)

		menus := catalog.Menus()
		require.Len(t, menus, 3)
		assert.Equal(t, "DASHBOARD", menus[0].Feature)
		assert.Equal(t, "USER-MANAGEMENT", menus[1].Children[0].Feature)
	})

	t.Run("Failure_DuplicateKey", func(t *testing.T) {
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		raw := `[{"key": "a", "label": "A"}, {"key": "a", "label": "Also A"}]`

		_, err := LoadCatalog([]byte(raw), testFeatureCatalog(t), logger)
		assert.ErrorIs(t, err, ErrDuplicateMenuKey)
	})

	t.Run("Success_UnknownFeatureOnlyWarns", func(t *testing.T) {
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		raw := `[{"key": "x", "label": "X", "feature": "ghost-feature"}]`

		catalog, err := LoadCatalog([]byte(raw), testFeatureCatalog(t), logger)
		require.NoError(t, err)
		assert.Equal(t, "GHOST-FEATURE", catalog.Menus()[0].Feature)
	})

	t.Run("Success_EmbeddedCatalogLoads", func(t *testing.T) {
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))
		featureCatalog, err := featureDomain.DefaultCatalog(logger)
		require.NoError(t, err)

		catalog, err := DefaultCatalog(featureCatalog, logger)
		require.NoError(t, err)
		assert.NotEmpty(t, catalog.Menus())
	})
}

func TestCatalog_VisibleTo(t *testing.T) {
	catalog := loadMenus(t, menuFixture)

	t.Run("Success_OnlyHeldFeaturesVisible", func(t *testing.T) {
		visible := catalog.VisibleTo([]string{"DASHBOARD"})

		require.Len(t, visible, 2)
		assert.Equal(t, "dashboard", visible[0].Key)
		assert.Equal(t, "help", visible[1].Key)
	})

	t.Run("Success_ParentKeptWhenChildVisible", func(t *testing.T) {
		// The caller does not hold the parent's capability, only a child's.
		visible := catalog.VisibleTo([]string{"ACCESS-GROUPS"})

		require.Len(t, visible, 2)
		assert.Equal(t, "admin", visible[0].Key)
		require.Len(t, visible[0].Children, 1)
		assert.Equal(t, "access-groups", visible[0].Children[0].Key)
	})

	t.Run("Success_NoPermissionsShowsOnlyUnrestricted", func(t *testing.T) {
		visible := catalog.VisibleTo(nil)

		require.Len(t, visible, 1)
		assert.Equal(t, "help", visible[0].Key)
	})
}
