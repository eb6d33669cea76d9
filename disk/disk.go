// Package disk persists single-value entities, such as a node key, to one
// owner-only file per entity type inside a directory.
//
// The store does no locking. Concurrent Saves to the same directory race and
// the last writer wins; a Load running alongside a Save may see a truncated
// file. Callers are expected to Load once at startup before any Save.
package disk

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/ipfs/go-log/v2"
)

var logger = log.Logger("disk")

// dirPerm is applied to directories created by Save, before the umask.
const dirPerm = 0o755

// Entity is a value that can be written to and read back from a single file.
// FileName and Description must not depend on the receiver's value.
type Entity interface {
	// FileName is the name of the file holding this entity type.
	FileName() string
	// Description names the entity in log messages.
	Description() string
	// Encode returns the UTF-8 representation written to disk.
	Encode() string
}

// Decoder is the pointer side of an Entity, able to rebuild it from the
// representation produced by Encode.
type Decoder[E any] interface {
	*E
	Entity
	Decode(s string) error
}

// Logger is the subset of a go-log or zap sugared logger the store uses.
type Logger interface {
	Debugf(template string, args ...interface{})
	Warnf(template string, args ...interface{})
}

// Store saves and loads entities of type E.
type Store[E any, P Decoder[E]] struct {
	log Logger
}

// NewStore returns a store for entities of type E. A nil logger selects the
// "disk" subsystem logger.
func NewStore[E any, P Decoder[E]](l Logger) *Store[E, P] {
	if l == nil {
		l = logger
	}
	return &Store[E, P]{log: l}
}

// Path returns the file that holds the entity inside dir.
func (s *Store[E, P]) Path(dir string) string {
	var zero E
	return filepath.Join(dir, P(&zero).FileName())
}

// Save writes entity to dir, creating dir and its parents as needed, and
// restricts the file to its owner.
//
// Every failure is logged before it is returned, so callers that treat a lost
// save as harmless may ignore the error. A failure to restrict permissions does
// not stop the write; Save then returns an error wrapping
// ErrRestrictPermissions although the contents are on disk.
//
// The file is created with default permissions and restricted afterwards, so
// for a short time it may be readable by others.
func (s *Store[E, P]) Save(dir string, entity E) error {
	p := P(&entity)
	desc := p.Description()

	if err := os.MkdirAll(dir, dirPerm); err != nil {
		s.log.Warnf("Failed to create %s directory %s: %v", desc, dir, err)
		return wrap(ErrCreateDir, desc, err)
	}

	path := filepath.Join(dir, p.FileName())
	f, err := os.Create(path)
	if err != nil {
		s.log.Warnf("Failed to create %s %s: %v", desc, path, err)
		return wrap(ErrCreateFile, desc, err)
	}

	var permErr error
	if err := restrictPermissions(f); err != nil {
		s.log.Warnf("Failed to restrict permissions of %s %s: %v", desc, path, err)
		permErr = wrap(ErrRestrictPermissions, desc, err)
	}

	_, err = f.WriteString(p.Encode())
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		s.log.Warnf("Failed to write %s %s: %v", desc, path, err)
		return wrap(ErrWrite, desc, err)
	}

	return permErr
}

// Read loads the entity stored in dir. The returned error wraps one of
// ErrOpen, ErrRead or ErrDecode; ErrOpen wraps fs.ErrNotExist when nothing has
// been saved yet. Read does not log.
func (s *Store[E, P]) Read(dir string) (E, error) {
	var entity E
	p := P(&entity)
	desc := p.Description()

	f, err := os.Open(filepath.Join(dir, p.FileName()))
	if err != nil {
		return entity, wrap(ErrOpen, desc, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return entity, wrap(ErrRead, desc, err)
	}
	if !utf8.Valid(data) {
		return entity, wrap(ErrRead, desc, errInvalidUTF8)
	}

	var decoded E
	if err := P(&decoded).Decode(string(data)); err != nil {
		return entity, wrap(ErrDecode, desc, err)
	}
	return decoded, nil
}

// Load is the best-effort form of Read: it reports a missing, unreadable or
// malformed file as absent. A missing file is the normal first-run case and is
// logged at debug level; the other failures are logged as warnings.
func (s *Store[E, P]) Load(dir string) (E, bool) {
	entity, err := s.Read(dir)
	if err == nil {
		return entity, true
	}

	if errors.Is(err, ErrOpen) {
		s.log.Debugf("Failed to open %s: %v", P(&entity).Description(), err)
	} else {
		s.log.Warnf("Failed to load %s: %v", P(&entity).Description(), err)
	}
	var zero E
	return zero, false
}
