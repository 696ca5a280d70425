package inventoryd

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/probelab/invctl/pkg/schema"
)

// newTestStore creates a store over an in-memory SQLite DB with the
// inventory tables migrated.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	store := NewStore(db, schema.Default())
	require.NoError(t, store.AutoMigrate())
	return store
}

func TestStoreCreateAndGetAsset(t *testing.T) {
	store := newTestStore(t)

	id, err := store.CreateAsset(1, "web-1")
	require.NoError(t, err)
	require.NotZero(t, id)

	asset, err := store.GetAsset(id)
	require.NoError(t, err)
	assert.Equal(t, "web-1", asset.Name)
	assert.Equal(t, int64(1), asset.Container)
	// Fresh assets carry the service-side defaults.
	assert.Equal(t, "Asset", asset.Kind)
	assert.Equal(t, "normal", asset.Mode)
	assert.Empty(t, asset.Collectors)
	assert.Empty(t, asset.Labels)

	_, err = store.GetAsset(999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreFindAssets(t *testing.T) {
	store := newTestStore(t)

	id1, err := store.CreateAsset(1, "web-1")
	require.NoError(t, err)
	_, err = store.CreateAsset(1, "db-1")
	require.NoError(t, err)
	_, err = store.CreateAsset(2, "other")
	require.NoError(t, err)
	require.NoError(t, store.SetProperty(id1, "kind", "Host"))

	container := int64(1)
	assets, err := store.FindAssets(&container, "", "")
	require.NoError(t, err)
	assert.Len(t, assets, 2)

	assets, err = store.FindAssets(&container, "web-1", "")
	require.NoError(t, err)
	require.Len(t, assets, 1)
	assert.Equal(t, "web-1", assets[0].Name)

	assets, err = store.FindAssets(nil, "", "Host")
	require.NoError(t, err)
	require.Len(t, assets, 1)
	assert.Equal(t, id1, assets[0].ID)
}

func TestStoreSetProperty(t *testing.T) {
	store := newTestStore(t)
	id, err := store.CreateAsset(1, "web-1")
	require.NoError(t, err)

	require.NoError(t, store.SetProperty(id, "mode", "maintenance"))
	require.NoError(t, store.SetProperty(id, "description", "primary web"))

	asset, err := store.GetAsset(id)
	require.NoError(t, err)
	assert.Equal(t, "maintenance", asset.Mode)
	assert.Equal(t, "primary web", asset.Description)

	assert.Error(t, store.SetProperty(id, "container", "2"))
	assert.ErrorIs(t, store.SetProperty(999, "mode", "normal"), ErrNotFound)
}

// Collector configs are stored raw but read back with schema defaults
// expanded, matching the production service's observed view.
func TestStoreCollectorsExpandDefaults(t *testing.T) {
	store := newTestStore(t)
	id, err := store.CreateAsset(1, "web-1")
	require.NoError(t, err)

	require.NoError(t, store.PutCollector(id, "tcp", map[string]any{"checkPorts": []any{80}}))
	require.NoError(t, store.PutCollector(id, "uptime", nil))

	asset, err := store.GetAsset(id)
	require.NoError(t, err)
	require.Len(t, asset.Collectors, 2)

	tcp := asset.Collectors[0]
	assert.Equal(t, "tcp", tcp.Key)
	assert.Equal(t, map[string]any{"checkPorts": []any{80.0}, "timeout": 5.0}, tcp.Config)

	uptime := asset.Collectors[1]
	assert.Equal(t, "uptime", uptime.Key)
	assert.Nil(t, uptime.Config)
}

func TestStorePutCollectorReplaces(t *testing.T) {
	store := newTestStore(t)
	id, err := store.CreateAsset(1, "web-1")
	require.NoError(t, err)

	require.NoError(t, store.PutCollector(id, "tcp", map[string]any{"checkPorts": []any{80}}))
	require.NoError(t, store.PutCollector(id, "tcp", map[string]any{"checkPorts": []any{443}}))

	asset, err := store.GetAsset(id)
	require.NoError(t, err)
	require.Len(t, asset.Collectors, 1)
	assert.Equal(t, []any{443.0}, asset.Collectors[0].Config["checkPorts"])

	require.NoError(t, store.DeleteCollector(id, "tcp"))
	assert.ErrorIs(t, store.DeleteCollector(id, "tcp"), ErrNotFound)

	assert.ErrorIs(t, store.PutCollector(999, "tcp", nil), ErrNotFound)
}

func TestStoreLabels(t *testing.T) {
	store := newTestStore(t)
	id, err := store.CreateAsset(1, "web-1")
	require.NoError(t, err)

	require.NoError(t, store.PutLabel(3, "prod"))
	label, err := store.GetLabel(3)
	require.NoError(t, err)
	assert.Equal(t, "prod", label.Name)

	_, err = store.GetLabel(99)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.AddLabel(id, 3))
	// Attaching twice is a no-op.
	require.NoError(t, store.AddLabel(id, 3))
	// Unknown label ids are rejected.
	assert.ErrorIs(t, store.AddLabel(id, 99), ErrNotFound)

	asset, err := store.GetAsset(id)
	require.NoError(t, err)
	assert.Equal(t, []int64{3}, asset.Labels)

	require.NoError(t, store.RemoveLabel(id, 3))
	assert.ErrorIs(t, store.RemoveLabel(id, 3), ErrNotFound)
}
