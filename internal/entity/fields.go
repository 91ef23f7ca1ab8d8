package entity

import (
	"context"
	"fmt"

	"github.com/roach88/diary/internal/list"
	"github.com/roach88/diary/internal/store"
)

// Keys used inside an entity's container.
const (
	keyTitle       = "title"
	keyDescription = "description"
	keyContent     = "content"
	keyNotes       = "notes"
	keyTags        = "tags"
	keyInclude     = "include"
	keyDate        = "date"
	keySections    = "sections"
	keyCollections = "collections"
)

func readString(ctx context.Context, c store.Container, key string) (string, error) {
	v, err := store.Get[string](ctx, c, key)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", key, err)
	}
	return v, nil
}

func readStrings(ctx context.Context, c store.Container, key string) ([]string, error) {
	child, err := c.Open(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	v, err := list.Read[string](ctx, child)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return v, nil
}

func writeStrings(ctx context.Context, c store.Container, key string, v []string) error {
	child, err := c.Child(ctx, key)
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := list.Write(ctx, child, v); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func readDate(ctx context.Context, c store.Container) (Date, error) {
	child, err := c.Open(ctx, keyDate)
	if err != nil {
		return Date{}, fmt.Errorf("read date: %w", err)
	}
	v, err := list.Read[uint16](ctx, child)
	if err != nil {
		return Date{}, fmt.Errorf("read date: %w", err)
	}
	return FromList(v)
}

func writeDate(ctx context.Context, c store.Container, d Date) error {
	child, err := c.Child(ctx, keyDate)
	if err != nil {
		return fmt.Errorf("write date: %w", err)
	}
	if err := list.Write(ctx, child, d.List()); err != nil {
		return fmt.Errorf("write date: %w", err)
	}
	return nil
}

// children opens the indexed child containers "0".."length-1" under key.
func children(ctx context.Context, c store.Container, key string) ([]store.Container, error) {
	parent, err := c.Open(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	n, err := list.Len(ctx, parent)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	out := make([]store.Container, 0, n)
	for i := range int(n) {
		child, err := parent.Open(ctx, fmt.Sprint(i))
		if err != nil {
			return nil, fmt.Errorf("read %s %d: %w", key, i, err)
		}
		out = append(out, child)
	}
	return out, nil
}

// newChildren creates n indexed child containers under key and records n
// as the list length.
func newChildren(ctx context.Context, c store.Container, key string, n int) ([]store.Container, error) {
	if n > list.MaxLen {
		return nil, fmt.Errorf("write %s: %d items exceeds %d", key, n, list.MaxLen)
	}
	parent, err := c.Child(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("write %s: %w", key, err)
	}
	out := make([]store.Container, n)
	for i := range n {
		if out[i], err = parent.Child(ctx, fmt.Sprint(i)); err != nil {
			return nil, fmt.Errorf("write %s %d: %w", key, i, err)
		}
	}
	if err := list.SetLen(ctx, parent, uint16(n)); err != nil {
		return nil, fmt.Errorf("write %s: %w", key, err)
	}
	return out, nil
}
