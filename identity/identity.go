// Package identity keeps a node's secp256k1 identity key in its data
// directory.
package identity

import (
	"github.com/ipfs/go-log/v2"

	"github.com/libp2p/universal-connectivity/go-nodekey/disk"
)

var logger = log.Logger("identity")

var keys = disk.NewStore[Secret](nil)

// KeyPath returns the key file inside dir.
func KeyPath(dir string) string {
	return keys.Path(dir)
}

// LoadIdentity reads the secret stored in dir and, if there is none or it
// cannot be used, generates a new one and tries to save it. Only a failure to
// generate is returned: a node that cannot persist its key still runs, with a
// fresh identity on every start.
func LoadIdentity(dir string) (Secret, error) {
	if secret, ok := keys.Load(dir); ok {
		return secret, nil
	}

	logger.Infof("Generating node identity in %s", dir)
	secret, err := GenerateSecret()
	if err != nil {
		return Secret{}, err
	}
	if err := keys.Save(dir, secret); err != nil {
		logger.Warnf("Node identity will not survive a restart: %v", err)
	}
	return secret, nil
}

// ReadIdentity reads the secret stored in dir.
func ReadIdentity(dir string) (Secret, error) {
	return keys.Read(dir)
}

// GenerateIdentity writes a new random secret to dir, replacing any existing
// one. The secret is returned with the save error when it could be generated
// but not fully saved.
func GenerateIdentity(dir string) (Secret, error) {
	secret, err := GenerateSecret()
	if err != nil {
		return Secret{}, err
	}
	return secret, keys.Save(dir, secret)
}

// ImportIdentity parses a hex secret and saves it to dir. As with
// GenerateIdentity, a valid secret is returned alongside a save error.
func ImportIdentity(dir, hexKey string) (Secret, error) {
	secret, err := ParseSecret(hexKey)
	if err != nil {
		return Secret{}, err
	}
	return secret, keys.Save(dir, secret)
}
