//go:build unix

package disk

import (
	"os"

	"golang.org/x/sys/unix"
)

const (
	// ownerOnly grants read and write to the owner and nothing else.
	ownerOnly = 0o600

	supportsOwnerOnly = true
)

var restrictPermissions = fchmodOwnerOnly

func fchmodOwnerOnly(f *os.File) error {
	sc, err := f.SyscallConn()
	if err != nil {
		return err
	}
	var chmodErr error
	if err := sc.Control(func(fd uintptr) {
		chmodErr = unix.Fchmod(int(fd), ownerOnly)
	}); err != nil {
		return err
	}
	return chmodErr
}
