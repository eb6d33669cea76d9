//go:build !unix

package disk

import (
	"errors"
	"os"
)

const supportsOwnerOnly = false

// errPermissionsUnsupported is returned where POSIX modes cannot express
// owner-only access.
var errPermissionsUnsupported = errors.New("owner-only permissions not supported on this platform")

var restrictPermissions = func(*os.File) error {
	return errPermissionsUnsupported
}
