package entity

import (
	"context"
	"fmt"

	"github.com/roach88/diary/internal/lazy"
	"github.com/roach88/diary/internal/store"
)

// Entry is a dated diary entry attached to its container. Fields are read
// from the store on first access and cached until ClearCache.
type Entry struct {
	c   store.Container
	uid string

	title       lazy.Field[string]
	description lazy.Field[string]
	tags        lazy.Field[[]string]
	notes       lazy.Field[[]string]
	date        lazy.Field[Date]
	sections    lazy.Field[[]*Section]
}

// NewEntry persists d under ns/<uid>, replacing any entry already there,
// and returns it with an empty cache.
func NewEntry(ctx context.Context, ns store.Container, d EntryDraft) (*Entry, error) {
	c, err := ns.Child(ctx, d.UID)
	if err != nil {
		return nil, fmt.Errorf("entry %q: %w", d.UID, err)
	}
	if err := c.Wipe(ctx); err != nil {
		return nil, fmt.Errorf("entry %q: %w", d.UID, err)
	}

	containers, err := newChildren(ctx, c, keySections, len(d.Sections))
	if err != nil {
		return nil, fmt.Errorf("entry %q: %w", d.UID, err)
	}
	sections := make([]*Section, len(d.Sections))
	for i, sd := range d.Sections {
		sections[i] = &Section{
			c:       containers[i],
			title:   lazy.Loaded(sd.Title),
			content: lazy.Loaded(sd.Content),
			notes:   lazy.Loaded(sd.Notes),
		}
	}

	e := &Entry{
		c:           c,
		uid:         d.UID,
		title:       lazy.Loaded(d.Title),
		description: lazy.Loaded(d.Description),
		tags:        lazy.Loaded(d.Tags),
		notes:       lazy.Loaded(d.Notes),
		date:        lazy.Loaded(d.Date),
		sections:    lazy.Loaded(sections),
	}
	if err := e.StoreLazy(ctx); err != nil {
		return nil, err
	}
	e.ClearCache()
	return e, nil
}

// LoadEntry attaches to an entry container without reading anything.
func LoadEntry(c store.Container) *Entry {
	return &Entry{c: c, uid: c.Name()}
}

// UID returns the entry's identifier.
func (e *Entry) UID() string { return e.uid }

// Container returns the container the entry is stored in.
func (e *Entry) Container() store.Container { return e.c }

func (e *Entry) Title(ctx context.Context) (string, error) {
	return e.title.Get(func() (string, error) { return readString(ctx, e.c, keyTitle) })
}

func (e *Entry) Description(ctx context.Context) (string, error) {
	return e.description.Get(func() (string, error) { return readString(ctx, e.c, keyDescription) })
}

func (e *Entry) Tags(ctx context.Context) ([]string, error) {
	return e.tags.Get(func() ([]string, error) { return readStrings(ctx, e.c, keyTags) })
}

func (e *Entry) Notes(ctx context.Context) ([]string, error) {
	return e.notes.Get(func() ([]string, error) { return readStrings(ctx, e.c, keyNotes) })
}

func (e *Entry) Date(ctx context.Context) (Date, error) {
	return e.date.Get(func() (Date, error) { return readDate(ctx, e.c) })
}

// Sections returns lazy handles for every section in order.
func (e *Entry) Sections(ctx context.Context) ([]*Section, error) {
	return e.sections.Get(func() ([]*Section, error) {
		cs, err := children(ctx, e.c, keySections)
		if err != nil {
			return nil, err
		}
		out := make([]*Section, len(cs))
		for i, c := range cs {
			out[i] = LoadSection(c)
		}
		return out, nil
	})
}

func (e *Entry) SetTitle(v string)       { e.title.Set(v) }
func (e *Entry) SetDescription(v string) { e.description.Set(v) }
func (e *Entry) SetTags(v []string)      { e.tags.Set(v) }
func (e *Entry) SetNotes(v []string)     { e.notes.Set(v) }
func (e *Entry) SetDate(v Date)          { e.date.Set(v) }

// HasTag reports whether the entry carries tag.
func (e *Entry) HasTag(ctx context.Context, tag string) (bool, error) {
	tags, err := e.Tags(ctx)
	if err != nil {
		return false, err
	}
	return containsTag(tags, tag), nil
}

// StoreLazy writes every loaded field back to the store. Unloaded fields
// are left as they are.
func (e *Entry) StoreLazy(ctx context.Context) error {
	if v, ok := e.title.Value(); ok {
		if err := store.Put(ctx, e.c, keyTitle, v); err != nil {
			return e.wrap(err)
		}
	}
	if v, ok := e.description.Value(); ok {
		if err := store.Put(ctx, e.c, keyDescription, v); err != nil {
			return e.wrap(err)
		}
	}
	if v, ok := e.tags.Value(); ok {
		if err := writeStrings(ctx, e.c, keyTags, v); err != nil {
			return e.wrap(err)
		}
	}
	if v, ok := e.notes.Value(); ok {
		if err := writeStrings(ctx, e.c, keyNotes, v); err != nil {
			return e.wrap(err)
		}
	}
	if v, ok := e.date.Value(); ok {
		if err := writeDate(ctx, e.c, v); err != nil {
			return e.wrap(err)
		}
	}
	if v, ok := e.sections.Value(); ok {
		for i, s := range v {
			if err := s.StoreLazy(ctx); err != nil {
				return e.wrap(fmt.Errorf("section %d: %w", i, err))
			}
		}
	}
	return nil
}

// ClearCache drops every cached field, including cached sections.
func (e *Entry) ClearCache() {
	e.title.Clear()
	e.description.Clear()
	e.tags.Clear()
	e.notes.Clear()
	e.date.Clear()
	e.sections.Clear()
}

// FillCache loads every field, recursing into sections.
func (e *Entry) FillCache(ctx context.Context) error {
	if _, err := e.Title(ctx); err != nil {
		return e.wrap(err)
	}
	if _, err := e.Description(ctx); err != nil {
		return e.wrap(err)
	}
	if _, err := e.Tags(ctx); err != nil {
		return e.wrap(err)
	}
	if _, err := e.Notes(ctx); err != nil {
		return e.wrap(err)
	}
	if _, err := e.Date(ctx); err != nil {
		return e.wrap(err)
	}
	sections, err := e.Sections(ctx)
	if err != nil {
		return e.wrap(err)
	}
	for i, s := range sections {
		if err := s.FillCache(ctx); err != nil {
			return e.wrap(fmt.Errorf("section %d: %w", i, err))
		}
	}
	return nil
}

func (e *Entry) wrap(err error) error {
	return fmt.Errorf("entry %q: %w", e.uid, err)
}

// Section is one titled block of an entry's content.
type Section struct {
	c store.Container

	title   lazy.Field[string]
	content lazy.Field[string]
	notes   lazy.Field[[]string]
}

// LoadSection attaches to a section container without reading anything.
func LoadSection(c store.Container) *Section {
	return &Section{c: c}
}

func (s *Section) Title(ctx context.Context) (string, error) {
	return s.title.Get(func() (string, error) { return readString(ctx, s.c, keyTitle) })
}

// Content returns the text snapshotted when the entry was committed.
func (s *Section) Content(ctx context.Context) (string, error) {
	return s.content.Get(func() (string, error) { return readString(ctx, s.c, keyContent) })
}

func (s *Section) Notes(ctx context.Context) ([]string, error) {
	return s.notes.Get(func() ([]string, error) { return readStrings(ctx, s.c, keyNotes) })
}

func (s *Section) SetTitle(v string)   { s.title.Set(v) }
func (s *Section) SetContent(v string) { s.content.Set(v) }
func (s *Section) SetNotes(v []string) { s.notes.Set(v) }

func (s *Section) StoreLazy(ctx context.Context) error {
	if v, ok := s.title.Value(); ok {
		if err := store.Put(ctx, s.c, keyTitle, v); err != nil {
			return err
		}
	}
	if v, ok := s.content.Value(); ok {
		if err := store.Put(ctx, s.c, keyContent, v); err != nil {
			return err
		}
	}
	if v, ok := s.notes.Value(); ok {
		if err := writeStrings(ctx, s.c, keyNotes, v); err != nil {
			return err
		}
	}
	return nil
}

func (s *Section) ClearCache() {
	s.title.Clear()
	s.content.Clear()
	s.notes.Clear()
}

func (s *Section) FillCache(ctx context.Context) error {
	if _, err := s.Title(ctx); err != nil {
		return err
	}
	if _, err := s.Content(ctx); err != nil {
		return err
	}
	_, err := s.Notes(ctx)
	return err
}
