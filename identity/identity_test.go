package identity

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/libp2p/universal-connectivity/go-nodekey/disk"
)

func TestKeyFileHoldsHex(t *testing.T) {
	dir := t.TempDir()
	secret, err := GenerateSecret()
	require.NoError(t, err)

	requireSaved(t, keys.Save(dir, secret))

	data, err := os.ReadFile(filepath.Join(dir, "key"))
	require.NoError(t, err)
	require.Equal(t, secret.Encode(), string(data))

	got, err := ReadIdentity(dir)
	require.NoError(t, err)
	require.True(t, secret.Equal(got))
}

func TestLoadIdentityGeneratesOnce(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "node")

	first, err := LoadIdentity(dir)
	require.NoError(t, err)
	require.True(t, first.Valid())
	require.FileExists(t, KeyPath(dir))

	second, err := LoadIdentity(dir)
	require.NoError(t, err)
	require.True(t, first.Equal(second))
}

func TestLoadIdentityReplacesCorruptKey(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(KeyPath(dir), []byte("not hex"), 0o600))

	secret, err := LoadIdentity(dir)
	require.NoError(t, err)
	require.True(t, secret.Valid())

	stored, err := ReadIdentity(dir)
	require.NoError(t, err)
	require.True(t, secret.Equal(stored))
}

func TestLoadIdentityRejectsPrefixedKeyFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(KeyPath(dir), []byte("0x"+one), 0o600))

	_, err := ReadIdentity(dir)
	require.ErrorIs(t, err, disk.ErrDecode)

	secret, err := LoadIdentity(dir)
	require.NoError(t, err)
	require.NotEqual(t, generatorID, secret.NodeID())
}

func TestLoadIdentityUnwritableDir(t *testing.T) {
	parent := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(parent, nil, 0o600))

	secret, err := LoadIdentity(filepath.Join(parent, "node"))
	require.NoError(t, err)
	require.True(t, secret.Valid())
}

func TestReadIdentityMissing(t *testing.T) {
	_, err := ReadIdentity(t.TempDir())
	require.ErrorIs(t, err, disk.ErrOpen)
	require.ErrorIs(t, err, fs.ErrNotExist)
}

func TestGenerateIdentityReplaces(t *testing.T) {
	dir := t.TempDir()

	old, err := LoadIdentity(dir)
	require.NoError(t, err)

	fresh, err := GenerateIdentity(dir)
	requireSaved(t, err)
	require.False(t, old.Equal(fresh))

	stored, err := ReadIdentity(dir)
	require.NoError(t, err)
	require.True(t, fresh.Equal(stored))
}

func TestImportIdentity(t *testing.T) {
	dir := t.TempDir()

	secret, err := ImportIdentity(dir, "0x"+one)
	requireSaved(t, err)
	require.Equal(t, generatorID, secret.NodeID())

	data, err := os.ReadFile(KeyPath(dir))
	require.NoError(t, err)
	require.Equal(t, one, string(data))

	_, err = ImportIdentity(dir, "nope")
	require.Error(t, err)
}

// requireSaved tolerates the permission warning on platforms without POSIX
// modes; the contents are written either way.
func requireSaved(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		require.ErrorIs(t, err, disk.ErrRestrictPermissions)
	}
}
