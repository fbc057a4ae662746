package entitlement_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shiftops/authcore/pkg/entitlement"
)

func TestInMemCatalog(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("load returns a copy", func(t *testing.T) {
		t.Parallel()
		src := entitlement.NewInMemCatalog(
			entitlement.Feature{Key: featTimeTracking, Label: "Time tracking"},
		)

		first, err := src.Load(ctx)
		require.NoError(t, err)
		delete(first, featTimeTracking)

		second, err := src.Load(ctx)
		require.NoError(t, err)
		require.Contains(t, second, featTimeTracking)
	})

	t.Run("panics on empty catalog", func(t *testing.T) {
		t.Parallel()
		require.Panics(t, func() { entitlement.NewInMemCatalog() })
	})

	t.Run("panics on empty key", func(t *testing.T) {
		t.Parallel()
		require.Panics(t, func() {
			entitlement.NewInMemCatalog(entitlement.Feature{Label: "Nameless"})
		})
	})
}

func writeCatalogFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "features.yml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestFileCatalog(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("parses features", func(t *testing.T) {
		t.Parallel()
		path := writeCatalogFile(t, `
features:
  - key: time_tracking
    label: Time tracking
  - key: incident_reports
    label: Incident reports
    default_enabled: true
`)

		catalog, err := entitlement.NewFileCatalog(path).Load(ctx)
		require.NoError(t, err)
		require.Len(t, catalog, 2)
		require.False(t, catalog[featTimeTracking].DefaultEnabled)
		require.True(t, catalog[featIncidentReports].DefaultEnabled)
		require.Equal(t, "Time tracking", catalog[featTimeTracking].Label)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		_, err := entitlement.NewFileCatalog(filepath.Join(t.TempDir(), "absent.yml")).Load(ctx)
		require.ErrorIs(t, err, entitlement.ErrFailedToLoadCatalog)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		t.Parallel()
		path := writeCatalogFile(t, "features: [unclosed")
		_, err := entitlement.NewFileCatalog(path).Load(ctx)
		require.ErrorIs(t, err, entitlement.ErrFailedToLoadCatalog)
	})

	t.Run("empty feature list", func(t *testing.T) {
		t.Parallel()
		path := writeCatalogFile(t, "features: []")
		_, err := entitlement.NewFileCatalog(path).Load(ctx)
		require.ErrorIs(t, err, entitlement.ErrEmptyCatalog)
	})

	t.Run("duplicate keys", func(t *testing.T) {
		t.Parallel()
		path := writeCatalogFile(t, `
features:
  - key: time_tracking
    label: Time tracking
  - key: time_tracking
    label: Time tracking again
`)
		_, err := entitlement.NewFileCatalog(path).Load(ctx)
		require.ErrorIs(t, err, entitlement.ErrInvalidCatalog)
	})

	t.Run("empty key", func(t *testing.T) {
		t.Parallel()
		path := writeCatalogFile(t, `
features:
  - label: Nameless
`)
		_, err := entitlement.NewFileCatalog(path).Load(ctx)
		require.ErrorIs(t, err, entitlement.ErrInvalidCatalog)
	})
}
