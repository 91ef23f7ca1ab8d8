// Package export renders the archive as a directory of markdown pages, one
// per entry and MOC, linked together by MOC collections.
package export

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/roach88/diary/internal/entity"
	"github.com/roach88/diary/internal/logging"
	"github.com/roach88/diary/internal/search"
)

// Source is the part of an archive an export reads.
type Source interface {
	ListEntries(ctx context.Context) ([]*entity.Entry, error)
	ListMOCs(ctx context.Context) ([]*entity.MOC, error)
	SortByDate(ctx context.Context, uids []string) ([]string, error)
}

// Options selects what is exported.
type Options struct {
	// Tags filters the exported items. Empty exports everything.
	Tags []string

	// Strict requires every tag rather than any of them.
	Strict bool
}

// Export writes <uid>.md for every selected entry and MOC into dir and
// returns the written paths, entries first.
func Export(ctx context.Context, src Source, dir string, opts Options, log zerolog.Logger) ([]string, error) {
	log = logging.Origin(log, "Export")
	log.Info().Str("dir", dir).Strs("tags", opts.Tags).Bool("strict", opts.Strict).Msg("exporting archive")

	entries, err := src.ListEntries(ctx)
	if err != nil {
		return nil, err
	}
	mocs, err := src.ListMOCs(ctx)
	if err != nil {
		return nil, err
	}
	if entries, err = selectItems(ctx, opts, entries); err != nil {
		return nil, err
	}
	if mocs, err = selectItems(ctx, opts, mocs); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}

	// Collection bodies search the whole archive, not just the selection.
	x := &exporter{src: src, dir: dir, log: log}
	var written []string
	for _, e := range entries {
		path, err := x.entry(ctx, e)
		if err != nil {
			return written, err
		}
		written = append(written, path)
	}
	for _, m := range mocs {
		path, err := x.moc(ctx, m)
		if err != nil {
			return written, err
		}
		written = append(written, path)
	}

	log.Info().Int("files", len(written)).Msg("exported all selected items")
	return written, nil
}

func selectItems[T search.Searchable](ctx context.Context, opts Options, items []T) ([]T, error) {
	if len(opts.Tags) == 0 {
		return items, nil
	}
	uids, err := search.Match(ctx, opts.Strict, opts.Tags, items)
	if err != nil {
		return nil, err
	}
	keep := make(map[string]bool, len(uids))
	for _, uid := range uids {
		keep[uid] = true
	}
	out := items[:0:0]
	for _, item := range items {
		if keep[item.UID()] {
			out = append(out, item)
		}
	}
	return out, nil
}

type exporter struct {
	src Source
	dir string
	log zerolog.Logger

	// loaded lazily on the first MOC
	allEntries map[string]*entity.Entry
	allMOCs    map[string]*entity.MOC
	entryList  []*entity.Entry
	mocList    []*entity.MOC
}

func (x *exporter) entry(ctx context.Context, e *entity.Entry) (string, error) {
	x.log.Debug().Str("uid", e.UID()).Msg("exporting entry")
	d, err := e.Draft(ctx)
	if err != nil {
		return "", err
	}
	e.ClearCache()

	var buf bytes.Buffer
	if err := RenderEntry(&buf, d); err != nil {
		return "", err
	}
	return x.write(e.UID(), buf.Bytes())
}

func (x *exporter) moc(ctx context.Context, m *entity.MOC) (string, error) {
	x.log.Debug().Str("uid", m.UID()).Msg("exporting moc")
	d, err := m.Draft(ctx)
	if err != nil {
		return "", err
	}
	m.ClearCache()

	bodies := make([]CollectionBody, len(d.Collections))
	for i, c := range d.Collections {
		if bodies[i], err = x.body(ctx, c.Include); err != nil {
			return "", fmt.Errorf("moc %q collection %q: %w", d.UID, c.Title, err)
		}
	}

	var buf bytes.Buffer
	if err := RenderMOC(&buf, d, bodies); err != nil {
		return "", err
	}
	return x.write(m.UID(), buf.Bytes())
}

func (x *exporter) body(ctx context.Context, include []string) (CollectionBody, error) {
	if err := x.index(ctx); err != nil {
		return CollectionBody{}, err
	}

	var body CollectionBody
	mocUIDs, err := search.Strict(ctx, include, x.mocList)
	if err != nil {
		return body, err
	}
	for _, uid := range mocUIDs {
		m := x.allMOCs[uid]
		l, err := link(ctx, uid, m.Title, m.Description, m.Notes)
		if err != nil {
			return body, err
		}
		body.MOCs = append(body.MOCs, l)
	}

	entryUIDs, err := search.Strict(ctx, include, x.entryList)
	if err != nil {
		return body, err
	}
	if entryUIDs, err = x.src.SortByDate(ctx, entryUIDs); err != nil {
		return body, err
	}
	for _, uid := range entryUIDs {
		e := x.allEntries[uid]
		l, err := link(ctx, uid, e.Title, e.Description, e.Notes)
		if err != nil {
			return body, err
		}
		body.Entries = append(body.Entries, l)
	}
	return body, nil
}

func (x *exporter) index(ctx context.Context) error {
	if x.allEntries != nil {
		return nil
	}
	entries, err := x.src.ListEntries(ctx)
	if err != nil {
		return err
	}
	mocs, err := x.src.ListMOCs(ctx)
	if err != nil {
		return err
	}
	x.entryList, x.mocList = entries, mocs
	x.allEntries = make(map[string]*entity.Entry, len(entries))
	for _, e := range entries {
		x.allEntries[e.UID()] = e
	}
	x.allMOCs = make(map[string]*entity.MOC, len(mocs))
	for _, m := range mocs {
		x.allMOCs[m.UID()] = m
	}
	return nil
}

type getter[T any] func(context.Context) (T, error)

func link(ctx context.Context, uid string, title, description getter[string], notes getter[[]string]) (Link, error) {
	l := Link{UID: uid}
	var err error
	if l.Title, err = title(ctx); err != nil {
		return l, err
	}
	if l.Description, err = description(ctx); err != nil {
		return l, err
	}
	if l.Notes, err = notes(ctx); err != nil {
		return l, err
	}
	return l, nil
}

// write replaces dir/<uid>.md atomically.
func (x *exporter) write(uid string, data []byte) (string, error) {
	path := filepath.Join(x.dir, uid+".md")
	tmp, err := os.CreateTemp(x.dir, "."+uid+".md.tmp-*")
	if err != nil {
		return "", fmt.Errorf("export %s: %w", uid, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("export %s: %w", uid, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("export %s: %w", uid, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("export %s: %w", uid, err)
	}
	return path, nil
}
