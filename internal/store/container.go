package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// Container is a handle to one node of the store, addressed by path.
// Handles are plain values; copying one is cheap and they never own
// anything beyond a reference to the Store.
type Container struct {
	s    *Store
	path string
}

// Path returns the container's slash-separated path. The root is "".
func (c Container) Path() string {
	return c.path
}

// Name returns the last path element.
func (c Container) Name() string {
	if i := strings.LastIndexByte(c.path, '/'); i >= 0 {
		return c.path[i+1:]
	}
	return c.path
}

// Store returns the store the container belongs to.
func (c Container) Store() *Store {
	return c.s
}

func (c Container) join(name string) string {
	if c.path == "" {
		return name
	}
	return c.path + "/" + name
}

func validName(name string) error {
	if name == "" || strings.Contains(name, "/") {
		return fmt.Errorf("%q: %w", name, ErrInvalidName)
	}
	return nil
}

// Child opens the named child container, creating it if absent.
func (c Container) Child(ctx context.Context, name string) (Container, error) {
	if err := validName(name); err != nil {
		return Container{}, err
	}
	child := Container{s: c.s, path: c.join(name)}

	err := c.s.do(ctx, "create", child.path, func(ctx context.Context) error {
		return ensure(ctx, c.s.db, child.path)
	})
	if err != nil {
		return Container{}, err
	}
	return child, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// ensure inserts path and every missing ancestor.
func ensure(ctx context.Context, db execer, path string) error {
	parts := strings.Split(path, "/")
	parent := ""
	for i, name := range parts {
		cur := strings.Join(parts[:i+1], "/")
		_, err := db.ExecContext(ctx,
			`INSERT OR IGNORE INTO containers (path, parent, name) VALUES (?, ?, ?)`,
			cur, parent, name)
		if err != nil {
			return err
		}
		parent = cur
	}
	return nil
}

// Open returns the named child container, or ErrNotFound if it does not exist.
func (c Container) Open(ctx context.Context, name string) (Container, error) {
	if err := validName(name); err != nil {
		return Container{}, err
	}
	child := Container{s: c.s, path: c.join(name)}

	ok, err := child.Exists(ctx)
	if err != nil {
		return Container{}, err
	}
	if !ok {
		return Container{}, fmt.Errorf("container %q: %w", child.path, ErrNotFound)
	}
	return child, nil
}

// Exists reports whether the container itself is present.
func (c Container) Exists(ctx context.Context) (bool, error) {
	var found bool
	err := c.s.do(ctx, "stat", c.path, func(ctx context.Context) error {
		var n int
		err := c.s.db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM containers WHERE path = ?`, c.path).Scan(&n)
		found = n > 0
		return err
	})
	return found, err
}

// Has reports whether key names either a scalar or a child container.
func (c Container) Has(ctx context.Context, key string) (bool, error) {
	var found bool
	err := c.s.do(ctx, "stat", c.join(key), func(ctx context.Context) error {
		var n int
		err := c.s.db.QueryRowContext(ctx, `
			SELECT (SELECT COUNT(*) FROM scalars WHERE container = ? AND key = ?)
			     + (SELECT COUNT(*) FROM containers WHERE path = ?)`,
			c.path, key, c.join(key)).Scan(&n)
		found = n > 0
		return err
	})
	return found, err
}

// Children returns the names of the direct child containers, sorted.
func (c Container) Children(ctx context.Context) ([]string, error) {
	var names []string
	err := c.s.do(ctx, "list", c.path, func(ctx context.Context) error {
		names = names[:0]
		rows, err := c.s.db.QueryContext(ctx,
			`SELECT name FROM containers WHERE parent = ? ORDER BY name`, c.path)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var name string
			if err := rows.Scan(&name); err != nil {
				return err
			}
			names = append(names, name)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return names, nil
}

// Remove deletes the scalar stored under key and the child container of the
// same name with its whole subtree. It returns ErrNotFound if neither exists.
func (c Container) Remove(ctx context.Context, key string) error {
	target := c.join(key)
	return c.s.do(ctx, "remove", target, func(ctx context.Context) error {
		tx, err := c.s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer tx.Rollback()

		res, err := tx.ExecContext(ctx,
			`DELETE FROM scalars WHERE container = ? AND key = ?`, c.path, key)
		if err != nil {
			return err
		}
		removed, _ := res.RowsAffected()

		n, err := deleteSubtree(ctx, tx, target, true)
		if err != nil {
			return err
		}
		if removed+n == 0 {
			return fmt.Errorf("%q: %w", target, ErrNotFound)
		}
		return tx.Commit()
	})
}

// Wipe removes every scalar and child container, leaving c itself empty.
func (c Container) Wipe(ctx context.Context) error {
	return c.s.do(ctx, "wipe", c.path, func(ctx context.Context) error {
		tx, err := c.s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer tx.Rollback()

		if _, err := tx.ExecContext(ctx,
			`DELETE FROM scalars WHERE container = ?`, c.path); err != nil {
			return err
		}
		if _, err := deleteSubtree(ctx, tx, c.path, false); err != nil {
			return err
		}
		if c.path != "" {
			// Wiping must not make the container itself disappear.
			if err := ensure(ctx, tx, c.path); err != nil {
				return err
			}
		}
		return tx.Commit()
	})
}

// deleteSubtree removes the descendants of path, and path itself when self
// is set. Descendants share the prefix path+"/"; '0' is the byte after '/'.
func deleteSubtree(ctx context.Context, tx *sql.Tx, path string, self bool) (int64, error) {
	var (
		scalarWhere, containerWhere string
		args                        []any
	)
	if path == "" {
		scalarWhere = `container <> ''`
		containerWhere = `path <> ''`
	} else {
		scalarWhere = `(container >= ? AND container < ?)`
		containerWhere = `(path >= ? AND path < ?)`
		args = []any{path + "/", path + "0"}
		if self {
			scalarWhere += ` OR container = ?`
			containerWhere += ` OR path = ?`
			args = append(args, path)
		}
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM scalars WHERE `+scalarWhere, args...); err != nil {
		return 0, err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM containers WHERE `+containerWhere, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Get reads the scalar stored under key. It returns ErrNotFound if the key
// is absent and ErrTypeMismatch if it holds a different kind.
func Get[T Scalar](ctx context.Context, c Container, key string) (T, error) {
	var (
		out  T
		kind Kind
		raw  []byte
	)
	err := c.s.do(ctx, "read", c.join(key), func(ctx context.Context) error {
		err := c.s.db.QueryRowContext(ctx,
			`SELECT kind, value FROM scalars WHERE container = ? AND key = ?`,
			c.path, key).Scan(&kind, &raw)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%q: %w", c.join(key), ErrNotFound)
		}
		return err
	})
	if err != nil {
		return out, err
	}

	out, err = decode[T](kind, raw)
	if err != nil {
		return out, fmt.Errorf("read %q: %w", c.join(key), err)
	}
	return out, nil
}

// Put writes v under key, replacing any previous value of any kind.
func Put[T Scalar](ctx context.Context, c Container, key string, v T) error {
	if err := validName(key); err != nil {
		return err
	}
	kind, raw := encode(v)
	return c.s.do(ctx, "write", c.join(key), func(ctx context.Context) error {
		tx, err := c.s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer tx.Rollback()

		if c.path != "" {
			if err := ensure(ctx, tx, c.path); err != nil {
				return err
			}
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO scalars (container, key, kind, value) VALUES (?, ?, ?, ?)
			 ON CONFLICT (container, key) DO UPDATE SET kind = excluded.kind, value = excluded.value`,
			c.path, key, kind, raw); err != nil {
			return err
		}
		return tx.Commit()
	})
}
