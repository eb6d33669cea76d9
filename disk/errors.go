package disk

import (
	"errors"
	"fmt"
)

// Failure kinds reported by Save and Read. Returned errors wrap both the kind
// and the underlying cause.
var (
	ErrCreateDir           = errors.New("create directory")
	ErrCreateFile          = errors.New("create file")
	ErrRestrictPermissions = errors.New("restrict permissions")
	ErrWrite               = errors.New("write file")
	ErrOpen                = errors.New("open file")
	ErrRead                = errors.New("read file")
	ErrDecode              = errors.New("decode")
)

var errInvalidUTF8 = errors.New("contents are not valid UTF-8")

func wrap(kind error, desc string, cause error) error {
	return fmt.Errorf("%s: %w: %w", desc, kind, cause)
}
