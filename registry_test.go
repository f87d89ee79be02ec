package sqldialect

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	registry := NewRegistry()
	registry.Register("Test", func(options Options) (Dialect, error) {
		return versionedDialect{version: options.Version}, nil
	}, "tdb", "TestDB")
	registry.Register("other", func(options Options) (Dialect, error) {
		return testDialect{}, nil
	})

	assert.Equal(t, []string{"other", "test"}, registry.Registered())
	for _, name := range []string{"test", "TEST", " test ", "tdb", "testdb", "TESTDB"} {
		assert.True(t, registry.IsRegistered(name), name)
	}
	assert.False(t, registry.IsRegistered("nope"))

	dialect, err := registry.Open("TDB", Options{Version: MakeVersion(2, 1)})
	require.NoError(t, err)
	assert.Equal(t, MakeVersion(2, 1), dialect.DatabaseVersion())

	_, err = registry.Open("nope", Options{})
	assert.EqualError(t, err, "sqldialect: unknown dialect 'nope' (available: other, test)")

	_, err = registry.Open("test", Options{TableType: "heap"})
	assert.ErrorContains(t, err, "invalid table type")
}

func TestOptionsLoad(t *testing.T) {
	path := t.TempDir() + "/options.yaml"
	require.NoError(t, os.WriteFile(path, []byte("version: 15.0.2000\ntable_type: columnstore\nfor_update_locking: true\n"), 0o600))
	options, err := LoadOptions(path)
	require.NoError(t, err)
	assert.Equal(t, Options{Version: MakeVersion(15, 0, 2000), TableType: "columnstore", ForUpdateLocking: true}, options)

	require.NoError(t, os.WriteFile(path, []byte("table_type: heap\n"), 0o600))
	_, err = LoadOptions(path)
	assert.Error(t, err)

	_, err = LoadOptions(t.TempDir() + "/missing.yaml")
	assert.Error(t, err)
}
