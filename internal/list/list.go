// Package list stores ordered sequences of scalars inside a container.
//
// A list occupies a whole container: its items live under the keys
// "0".."n-1" and the item count under "length" as a uint16.
package list

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"math"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/roach88/diary/internal/store"
)

// LengthKey holds the number of items in a list container.
const LengthKey = "length"

// MaxLen is the largest list the length scalar can describe.
const MaxLen = math.MaxUint16

// ErrInconsistent is returned when length names an index that is absent.
var ErrInconsistent = errors.New("inconsistent list length")

// Write replaces the contents of c with items. Anything previously stored
// in c is discarded.
func Write[T store.Scalar](ctx context.Context, c store.Container, items []T) error {
	if len(items) > MaxLen {
		return fmt.Errorf("list %q: %d items exceeds %d", c.Path(), len(items), MaxLen)
	}
	if err := c.Wipe(ctx); err != nil {
		return err
	}
	for i, item := range items {
		if err := store.Put(ctx, c, strconv.Itoa(i), item); err != nil {
			return err
		}
	}
	return SetLen(ctx, c, uint16(len(items)))
}

// Read returns every item of the list in c, in order.
func Read[T store.Scalar](ctx context.Context, c store.Container) ([]T, error) {
	n, err := Len(ctx, c)
	if err != nil {
		return nil, err
	}
	items := make([]T, 0, n)
	for item, err := range All[T](ctx, c) {
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// All streams the list in c one index at a time. Iteration stops at the
// first error, which is yielded with a zero item.
func All[T store.Scalar](ctx context.Context, c store.Container) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T
		n, err := Len(ctx, c)
		if err != nil {
			yield(zero, err)
			return
		}
		for i := range int(n) {
			item, err := store.Get[T](ctx, c, strconv.Itoa(i))
			if errors.Is(err, store.ErrNotFound) {
				err = fmt.Errorf("list %q: index %d of %d: %w", c.Path(), i, n, ErrInconsistent)
			}
			if err != nil {
				yield(zero, err)
				return
			}
			if !yield(item, nil) {
				return
			}
		}
	}
}

// Len returns the number of items in the list in c.
func Len(ctx context.Context, c store.Container) (uint16, error) {
	n, err := store.Get[uint16](ctx, c, LengthKey)
	if err != nil {
		return 0, fmt.Errorf("list %q length: %w", c.Path(), err)
	}
	return n, nil
}

// SetLen writes the length scalar of c.
func SetLen(ctx context.Context, c store.Container, n uint16) error {
	return store.Put(ctx, c, LengthKey, n)
}

// Push appends item to the list in c.
func Push[T store.Scalar](ctx context.Context, c store.Container, item T) error {
	n, err := Len(ctx, c)
	if err != nil {
		return err
	}
	if n == MaxLen {
		return fmt.Errorf("list %q is full", c.Path())
	}
	if err := store.Put(ctx, c, strconv.Itoa(int(n)), item); err != nil {
		return err
	}
	return SetLen(ctx, c, n+1)
}

// Pop removes and returns the last item of the list in c. The boolean is
// false when the list is empty. A failure to remove the item's key is only
// logged; the length is decremented regardless.
func Pop[T store.Scalar](ctx context.Context, c store.Container, log zerolog.Logger) (T, bool, error) {
	var zero T
	n, err := Len(ctx, c)
	if err != nil {
		return zero, false, err
	}
	if n == 0 {
		return zero, false, nil
	}

	key := strconv.Itoa(int(n - 1))
	item, err := store.Get[T](ctx, c, key)
	if errors.Is(err, store.ErrNotFound) {
		err = fmt.Errorf("list %q: index %d of %d: %w", c.Path(), n-1, n, ErrInconsistent)
	}
	if err != nil {
		return zero, false, err
	}

	if err := c.Remove(ctx, key); err != nil {
		log.Warn().Err(err).Str("list", c.Path()).Str("key", key).
			Msg("could not remove popped item; index gap possible")
	}

	if err := SetLen(ctx, c, n-1); err != nil {
		return zero, false, err
	}
	return item, true, nil
}
