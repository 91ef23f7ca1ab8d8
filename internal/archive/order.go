package archive

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/roach88/diary/internal/entity"
	"github.com/roach88/diary/internal/list"
	"github.com/roach88/diary/internal/logging"
)

// Sorted returns the sorted entry uids, oldest first.
func (a *Archive) Sorted(ctx context.Context) ([]string, error) {
	return a.readOrder(ctx, keySorted)
}

// Unsorted returns the entry uids committed since the last Sort.
func (a *Archive) Unsorted(ctx context.Context) ([]string, error) {
	return a.readOrder(ctx, keyUnsorted)
}

func (a *Archive) readOrder(ctx context.Context, name string) ([]string, error) {
	c, err := a.order(ctx, name)
	if err != nil {
		return nil, err
	}
	uids, err := list.Read[string](ctx, c)
	if err != nil {
		return nil, fmt.Errorf("read %s list: %w", name, err)
	}
	return uids, nil
}

func (a *Archive) writeOrder(ctx context.Context, name string, uids []string) error {
	c, err := a.order(ctx, name)
	if err != nil {
		return err
	}
	if err := list.Write(ctx, c, uids); err != nil {
		return fmt.Errorf("write %s list: %w", name, err)
	}
	return nil
}

// Sort merges the unsorted stack into the sorted list.
//
// Dates ascend; an arrival is placed after every entry of the same date,
// so ties keep arrival order. A uid already in the sorted list is moved
// rather than duplicated. Uids whose entry no longer exists are dropped.
func (a *Archive) Sort(ctx context.Context) error {
	log := logging.Origin(a.log, "Sort")

	unsorted, err := a.Unsorted(ctx)
	if err != nil {
		return err
	}
	if len(unsorted) == 0 {
		log.Info().Msg("unsorted stack is empty; nothing to sort")
		return nil
	}

	sorted, err := a.Sorted(ctx)
	if err != nil {
		return err
	}

	log.Info().Int("arrivals", len(unsorted)).Int("sorted", len(sorted)).Msg("sorting entries")
	dates := newDateCache(a)

	// Drop sorted uids whose entry has gone.
	kept := sorted[:0]
	for _, uid := range sorted {
		if _, ok, err := dates.get(ctx, uid); err != nil {
			return err
		} else if ok {
			kept = append(kept, uid)
		} else {
			log.Warn().Str("uid", uid).Msg("sorted entry no longer exists; dropping it")
		}
	}
	sorted = kept

	for _, uid := range unsorted {
		sorted = slices.DeleteFunc(sorted, func(s string) bool { return s == uid })

		date, ok, err := dates.get(ctx, uid)
		if err != nil {
			return err
		}
		if !ok {
			log.Warn().Str("uid", uid).Msg("unsorted entry no longer exists; skipping it")
			continue
		}

		at := len(sorted)
		for i, other := range sorted {
			d, _, err := dates.get(ctx, other)
			if err != nil {
				return err
			}
			if date.Before(d) {
				at = i
				break
			}
		}
		sorted = slices.Insert(sorted, at, uid)
	}

	if err := a.writeOrder(ctx, keySorted, sorted); err != nil {
		return err
	}
	if err := a.writeOrder(ctx, keyUnsorted, nil); err != nil {
		return err
	}
	log.Info().Int("sorted", len(sorted)).Msg("entries sorted")
	return nil
}

// SortByDate returns uids ordered by entry date, oldest first, keeping the
// input order of equal dates.
func (a *Archive) SortByDate(ctx context.Context, uids []string) ([]string, error) {
	dates := newDateCache(a)
	for _, uid := range uids {
		if _, ok, err := dates.get(ctx, uid); err != nil {
			return nil, err
		} else if !ok {
			return nil, fmt.Errorf("entry %q: %w", uid, ErrNotFound)
		}
	}

	out := slices.Clone(uids)
	slices.SortStableFunc(out, func(x, y string) int {
		return dates.m[x].Compare(dates.m[y])
	})
	return out, nil
}

// dateCache memoises entry dates for the length of one pass.
type dateCache struct {
	a       *Archive
	m       map[string]entity.Date
	missing map[string]bool
}

func newDateCache(a *Archive) *dateCache {
	return &dateCache{a: a, m: map[string]entity.Date{}, missing: map[string]bool{}}
}

func (c *dateCache) get(ctx context.Context, uid string) (entity.Date, bool, error) {
	if d, ok := c.m[uid]; ok {
		return d, true, nil
	}
	if c.missing[uid] {
		return entity.Date{}, false, nil
	}

	e, err := c.a.GetEntry(ctx, uid)
	if errors.Is(err, ErrNotFound) {
		c.missing[uid] = true
		return entity.Date{}, false, nil
	}
	if err != nil {
		return entity.Date{}, false, err
	}
	d, err := e.Date(ctx)
	if err != nil {
		return entity.Date{}, false, err
	}
	c.m[uid] = d
	return d, true, nil
}
