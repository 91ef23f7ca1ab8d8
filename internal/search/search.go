// Package search filters entries and MOCs by tag.
package search

import "context"

// Searchable is anything with a uid and a set of tags.
type Searchable interface {
	UID() string
	HasTag(ctx context.Context, tag string) (bool, error)
}

// Strict returns the uids of the items carrying every tag, in input order.
// An empty tag list matches every item.
func Strict[T Searchable](ctx context.Context, tags []string, items []T) ([]string, error) {
	out := []string{}
	for _, item := range items {
		all := true
		for _, tag := range tags {
			ok, err := item.HasTag(ctx, tag)
			if err != nil {
				return nil, err
			}
			if !ok {
				all = false
				break
			}
		}
		if all {
			out = append(out, item.UID())
		}
	}
	return out, nil
}

// Any returns the uids of the items carrying at least one tag, in input
// order. An empty tag list matches nothing.
func Any[T Searchable](ctx context.Context, tags []string, items []T) ([]string, error) {
	out := []string{}
	for _, item := range items {
		for _, tag := range tags {
			ok, err := item.HasTag(ctx, tag)
			if err != nil {
				return nil, err
			}
			if ok {
				out = append(out, item.UID())
				break
			}
		}
	}
	return out, nil
}

// Match dispatches to Strict or Any.
func Match[T Searchable](ctx context.Context, strict bool, tags []string, items []T) ([]string, error) {
	if strict {
		return Strict(ctx, tags, items)
	}
	return Any(ctx, tags, items)
}
