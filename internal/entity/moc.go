package entity

import (
	"context"
	"fmt"

	"github.com/roach88/diary/internal/lazy"
	"github.com/roach88/diary/internal/store"
)

// MOC is a map of content: an entity that aggregates entries and other
// MOCs through tag-based collections.
type MOC struct {
	c   store.Container
	uid string

	title       lazy.Field[string]
	description lazy.Field[string]
	tags        lazy.Field[[]string]
	notes       lazy.Field[[]string]
	collections lazy.Field[[]*Collection]
}

// NewMOC persists d under ns/<uid>, replacing any MOC already there, and
// returns it with an empty cache.
func NewMOC(ctx context.Context, ns store.Container, d MOCDraft) (*MOC, error) {
	c, err := ns.Child(ctx, d.UID)
	if err != nil {
		return nil, fmt.Errorf("moc %q: %w", d.UID, err)
	}
	if err := c.Wipe(ctx); err != nil {
		return nil, fmt.Errorf("moc %q: %w", d.UID, err)
	}

	containers, err := newChildren(ctx, c, keyCollections, len(d.Collections))
	if err != nil {
		return nil, fmt.Errorf("moc %q: %w", d.UID, err)
	}
	collections := make([]*Collection, len(d.Collections))
	for i, cd := range d.Collections {
		collections[i] = &Collection{
			c:       containers[i],
			title:   lazy.Loaded(cd.Title),
			notes:   lazy.Loaded(cd.Notes),
			include: lazy.Loaded(cd.Include),
		}
	}

	m := &MOC{
		c:           c,
		uid:         d.UID,
		title:       lazy.Loaded(d.Title),
		description: lazy.Loaded(d.Description),
		tags:        lazy.Loaded(d.Tags),
		notes:       lazy.Loaded(d.Notes),
		collections: lazy.Loaded(collections),
	}
	if err := m.StoreLazy(ctx); err != nil {
		return nil, err
	}
	m.ClearCache()
	return m, nil
}

// LoadMOC attaches to a MOC container without reading anything.
func LoadMOC(c store.Container) *MOC {
	return &MOC{c: c, uid: c.Name()}
}

func (m *MOC) UID() string                { return m.uid }
func (m *MOC) Container() store.Container { return m.c }

func (m *MOC) Title(ctx context.Context) (string, error) {
	return m.title.Get(func() (string, error) { return readString(ctx, m.c, keyTitle) })
}

func (m *MOC) Description(ctx context.Context) (string, error) {
	return m.description.Get(func() (string, error) { return readString(ctx, m.c, keyDescription) })
}

func (m *MOC) Tags(ctx context.Context) ([]string, error) {
	return m.tags.Get(func() ([]string, error) { return readStrings(ctx, m.c, keyTags) })
}

func (m *MOC) Notes(ctx context.Context) ([]string, error) {
	return m.notes.Get(func() ([]string, error) { return readStrings(ctx, m.c, keyNotes) })
}

// Collections returns lazy handles for every collection in order.
func (m *MOC) Collections(ctx context.Context) ([]*Collection, error) {
	return m.collections.Get(func() ([]*Collection, error) {
		cs, err := children(ctx, m.c, keyCollections)
		if err != nil {
			return nil, err
		}
		out := make([]*Collection, len(cs))
		for i, c := range cs {
			out[i] = LoadCollection(c)
		}
		return out, nil
	})
}

func (m *MOC) SetTitle(v string)       { m.title.Set(v) }
func (m *MOC) SetDescription(v string) { m.description.Set(v) }
func (m *MOC) SetTags(v []string)      { m.tags.Set(v) }
func (m *MOC) SetNotes(v []string)     { m.notes.Set(v) }

// HasTag reports whether the MOC carries tag.
func (m *MOC) HasTag(ctx context.Context, tag string) (bool, error) {
	tags, err := m.Tags(ctx)
	if err != nil {
		return false, err
	}
	return containsTag(tags, tag), nil
}

// StoreLazy writes every loaded field back to the store.
func (m *MOC) StoreLazy(ctx context.Context) error {
	if v, ok := m.title.Value(); ok {
		if err := store.Put(ctx, m.c, keyTitle, v); err != nil {
			return m.wrap(err)
		}
	}
	if v, ok := m.description.Value(); ok {
		if err := store.Put(ctx, m.c, keyDescription, v); err != nil {
			return m.wrap(err)
		}
	}
	if v, ok := m.tags.Value(); ok {
		if err := writeStrings(ctx, m.c, keyTags, v); err != nil {
			return m.wrap(err)
		}
	}
	if v, ok := m.notes.Value(); ok {
		if err := writeStrings(ctx, m.c, keyNotes, v); err != nil {
			return m.wrap(err)
		}
	}
	if v, ok := m.collections.Value(); ok {
		for i, col := range v {
			if err := col.StoreLazy(ctx); err != nil {
				return m.wrap(fmt.Errorf("collection %d: %w", i, err))
			}
		}
	}
	return nil
}

func (m *MOC) ClearCache() {
	m.title.Clear()
	m.description.Clear()
	m.tags.Clear()
	m.notes.Clear()
	m.collections.Clear()
}

func (m *MOC) FillCache(ctx context.Context) error {
	if _, err := m.Title(ctx); err != nil {
		return m.wrap(err)
	}
	if _, err := m.Description(ctx); err != nil {
		return m.wrap(err)
	}
	if _, err := m.Tags(ctx); err != nil {
		return m.wrap(err)
	}
	if _, err := m.Notes(ctx); err != nil {
		return m.wrap(err)
	}
	collections, err := m.Collections(ctx)
	if err != nil {
		return m.wrap(err)
	}
	for i, col := range collections {
		if err := col.FillCache(ctx); err != nil {
			return m.wrap(fmt.Errorf("collection %d: %w", i, err))
		}
	}
	return nil
}

func (m *MOC) wrap(err error) error {
	return fmt.Errorf("moc %q: %w", m.uid, err)
}

// Collection lists, under a title, everything tagged with all of Include.
type Collection struct {
	c store.Container

	title   lazy.Field[string]
	notes   lazy.Field[[]string]
	include lazy.Field[[]string]
}

func LoadCollection(c store.Container) *Collection {
	return &Collection{c: c}
}

func (c *Collection) Title(ctx context.Context) (string, error) {
	return c.title.Get(func() (string, error) { return readString(ctx, c.c, keyTitle) })
}

func (c *Collection) Notes(ctx context.Context) ([]string, error) {
	return c.notes.Get(func() ([]string, error) { return readStrings(ctx, c.c, keyNotes) })
}

// Include returns the tags an item must all carry to be listed.
func (c *Collection) Include(ctx context.Context) ([]string, error) {
	return c.include.Get(func() ([]string, error) { return readStrings(ctx, c.c, keyInclude) })
}

func (c *Collection) SetTitle(v string)     { c.title.Set(v) }
func (c *Collection) SetNotes(v []string)   { c.notes.Set(v) }
func (c *Collection) SetInclude(v []string) { c.include.Set(v) }

func (c *Collection) StoreLazy(ctx context.Context) error {
	if v, ok := c.title.Value(); ok {
		if err := store.Put(ctx, c.c, keyTitle, v); err != nil {
			return err
		}
	}
	if v, ok := c.notes.Value(); ok {
		if err := writeStrings(ctx, c.c, keyNotes, v); err != nil {
			return err
		}
	}
	if v, ok := c.include.Value(); ok {
		if err := writeStrings(ctx, c.c, keyInclude, v); err != nil {
			return err
		}
	}
	return nil
}

func (c *Collection) ClearCache() {
	c.title.Clear()
	c.notes.Clear()
	c.include.Clear()
}

func (c *Collection) FillCache(ctx context.Context) error {
	if _, err := c.Title(ctx); err != nil {
		return err
	}
	if _, err := c.Notes(ctx); err != nil {
		return err
	}
	_, err := c.Include(ctx)
	return err
}
