package store

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fxamacker/cbor/v2"
)

const (
	// compiledFormat identifies a compiled store blob.
	compiledFormat = "diary-store"

	// compiledVersion is bumped when the envelope layout changes.
	compiledVersion = 1
)

var sqliteMagic = []byte("SQLite format 3\x00")

// envelope wraps a consistent database snapshot so a backup can be
// recognised before anything is written in its place.
type envelope struct {
	Format  string `cbor:"1,keyasint"`
	Version uint   `cbor:"2,keyasint"`
	Store   []byte `cbor:"3,keyasint"`
}

// Compile writes a snapshot of the whole store to out as a single file.
// The file appears atomically; an existing file at out is replaced.
func (s *Store) Compile(ctx context.Context, out string) error {
	return s.do(ctx, "compile", out, func(ctx context.Context) error {
		dir, err := os.MkdirTemp(filepath.Dir(s.path), ".compile-*")
		if err != nil {
			return err
		}
		defer os.RemoveAll(dir)

		snapshot := filepath.Join(dir, "snapshot.db")
		if _, err := s.db.ExecContext(ctx, `VACUUM INTO ?`, snapshot); err != nil {
			return fmt.Errorf("snapshot: %w", err)
		}
		raw, err := os.ReadFile(snapshot)
		if err != nil {
			return err
		}

		blob, err := cbor.Marshal(envelope{
			Format:  compiledFormat,
			Version: compiledVersion,
			Store:   raw,
		})
		if err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		return writeAtomic(out, blob)
	})
}

// Decompile validates the compiled store at in and writes it as a store
// file at dest, replacing whatever was there. The caller must not hold
// dest open.
func Decompile(in, dest string) error {
	raw, err := os.ReadFile(in)
	if err != nil {
		return &IOError{Op: "decompile", Path: in, Err: err}
	}

	db, err := unwrap(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", in, err)
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return &IOError{Op: "decompile", Path: dest, Err: err}
	}
	if err := writeAtomic(dest, db); err != nil {
		return &IOError{Op: "decompile", Path: dest, Err: err}
	}
	// Sidecars of the replaced database would be replayed into the new one.
	return removeSidecars(dest)
}

// IsCompiled reports whether the file at path is a readable compiled store.
func IsCompiled(path string) bool {
	raw, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	_, err = unwrap(raw)
	return err == nil
}

func unwrap(raw []byte) ([]byte, error) {
	var env envelope
	if err := cbor.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode envelope: %v: %w", err, ErrInvalidBackup)
	}
	if env.Format != compiledFormat {
		return nil, fmt.Errorf("format %q: %w", env.Format, ErrInvalidBackup)
	}
	if env.Version != compiledVersion {
		return nil, fmt.Errorf("unsupported version %d: %w", env.Version, ErrInvalidBackup)
	}
	if !bytes.HasPrefix(env.Store, sqliteMagic) {
		return nil, fmt.Errorf("snapshot is not a database: %w", ErrInvalidBackup)
	}
	return env.Store, nil
}

// rename is swapped in tests to fail the final step of writeAtomic.
var rename = os.Rename

// writeAtomic writes data to a temp file next to path and renames it in place.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return rename(tmpPath, path)
}
