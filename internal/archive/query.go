package archive

import (
	"context"
	"errors"
	"fmt"

	"github.com/roach88/diary/internal/entity"
	"github.com/roach88/diary/internal/logging"
	"github.com/roach88/diary/internal/store"
)

// GetEntry returns a lazy handle on the entry with uid.
func (a *Archive) GetEntry(ctx context.Context, uid string) (*entity.Entry, error) {
	c, err := a.lookup(ctx, nsEntries, uid)
	if err != nil {
		return nil, fmt.Errorf("entry %q: %w", uid, err)
	}
	return entity.LoadEntry(c), nil
}

// GetMOC returns a lazy handle on the MOC with uid.
func (a *Archive) GetMOC(ctx context.Context, uid string) (*entity.MOC, error) {
	c, err := a.lookup(ctx, nsMOCs, uid)
	if err != nil {
		return nil, fmt.Errorf("moc %q: %w", uid, err)
	}
	return entity.LoadMOC(c), nil
}

func (a *Archive) lookup(ctx context.Context, ns, uid string) (store.Container, error) {
	c, err := a.store.Root().Open(ctx, ns)
	if err != nil {
		return store.Container{}, err
	}
	c, err = c.Open(ctx, uid)
	if errors.Is(err, store.ErrInvalidName) {
		return store.Container{}, ErrNotFound
	}
	return c, err
}

// ListEntries returns lazy handles on every entry, ordered by uid.
func (a *Archive) ListEntries(ctx context.Context) ([]*entity.Entry, error) {
	names, err := a.names(ctx, nsEntries)
	if err != nil {
		return nil, err
	}
	ns := a.store.At(nsEntries)
	out := make([]*entity.Entry, 0, len(names))
	for _, name := range names {
		c, err := ns.Open(ctx, name)
		if err != nil {
			return nil, err
		}
		out = append(out, entity.LoadEntry(c))
	}
	return out, nil
}

// ListMOCs returns lazy handles on every MOC, ordered by uid.
func (a *Archive) ListMOCs(ctx context.Context) ([]*entity.MOC, error) {
	names, err := a.names(ctx, nsMOCs)
	if err != nil {
		return nil, err
	}
	ns := a.store.At(nsMOCs)
	out := make([]*entity.MOC, 0, len(names))
	for _, name := range names {
		c, err := ns.Open(ctx, name)
		if err != nil {
			return nil, err
		}
		out = append(out, entity.LoadMOC(c))
	}
	return out, nil
}

func (a *Archive) names(ctx context.Context, ns string) ([]string, error) {
	c, err := a.store.Root().Open(ctx, ns)
	if errors.Is(err, store.ErrNotFound) {
		logging.Origin(a.log, "Archive").Warn().Str("namespace", ns).Msg("namespace does not exist; nothing to list")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return c.Children(ctx)
}

// UpdateEntry loads the entry with uid, runs fn on it and writes back every
// field fn loaded or set. Nothing is written if fn fails.
func (a *Archive) UpdateEntry(ctx context.Context, uid string, fn func(*entity.Entry) error) error {
	e, err := a.GetEntry(ctx, uid)
	if err != nil {
		return err
	}
	if err := fn(e); err != nil {
		return err
	}
	return e.StoreLazy(ctx)
}

// UpdateMOC is UpdateEntry for MOCs.
func (a *Archive) UpdateMOC(ctx context.Context, uid string, fn func(*entity.MOC) error) error {
	m, err := a.GetMOC(ctx, uid)
	if err != nil {
		return err
	}
	if err := fn(m); err != nil {
		return err
	}
	return m.StoreLazy(ctx)
}
