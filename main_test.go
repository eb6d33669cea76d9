package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/libp2p/universal-connectivity/go-nodekey/identity"
)

const testKeyHex = "0000000000000000000000000000000000000000000000000000000000000001"

func TestResolveIdentityLoadsStoredKey(t *testing.T) {
	cfg := Config{DataDir: t.TempDir()}

	first, err := resolveIdentity(cfg)
	require.NoError(t, err)

	second, err := resolveIdentity(cfg)
	require.NoError(t, err)
	require.True(t, first.Equal(second))
}

func TestResolveIdentityGenKeyReplaces(t *testing.T) {
	dir := t.TempDir()
	old, err := resolveIdentity(Config{DataDir: dir})
	require.NoError(t, err)

	fresh, err := resolveIdentity(Config{DataDir: dir, GenKey: true})
	require.NoError(t, err)
	require.False(t, old.Equal(fresh))

	stored, err := identity.ReadIdentity(dir)
	require.NoError(t, err)
	require.True(t, fresh.Equal(stored))
}

func TestResolveIdentityGenKeyFailsWithoutDir(t *testing.T) {
	parent := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(parent, nil, 0o600))

	_, err := resolveIdentity(Config{DataDir: filepath.Join(parent, "node"), GenKey: true})
	require.Error(t, err)
}

func TestResolveIdentityNodeKeyHex(t *testing.T) {
	dir := t.TempDir()

	secret, err := resolveIdentity(Config{DataDir: dir, NodeKeyHex: testKeyHex})
	require.NoError(t, err)
	require.Equal(t, testKeyHex, secret.Encode())

	stored, err := identity.ReadIdentity(dir)
	require.NoError(t, err)
	require.True(t, secret.Equal(stored))

	_, err = resolveIdentity(Config{DataDir: dir, NodeKeyHex: "xyz"})
	require.Error(t, err)
}

func TestRunWriteAddressExits(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, run(context.Background(), Config{DataDir: dir, WriteAddress: true}))
	require.FileExists(t, identity.KeyPath(dir))
}
