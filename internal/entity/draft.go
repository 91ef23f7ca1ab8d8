package entity

import "context"

// EntryDraft is a fully validated entry waiting to be persisted.
type EntryDraft struct {
	UID         string
	Title       string
	Description string
	Tags        []string
	Notes       []string
	Date        Date
	Sections    []SectionDraft
}

// SectionDraft carries the snapshotted content of one entry section.
type SectionDraft struct {
	Title   string
	Content string
	Notes   []string
}

// MOCDraft is a fully validated map of content waiting to be persisted.
type MOCDraft struct {
	UID         string
	Title       string
	Description string
	Tags        []string
	Notes       []string
	Collections []CollectionDraft
}

// CollectionDraft groups the entries and MOCs carrying every tag in Include.
type CollectionDraft struct {
	Title   string
	Notes   []string
	Include []string
}

// Draft reads the whole entry back into a draft.
func (e *Entry) Draft(ctx context.Context) (EntryDraft, error) {
	if err := e.FillCache(ctx); err != nil {
		return EntryDraft{}, err
	}
	d := EntryDraft{UID: e.uid}
	d.Title, _ = e.title.Value()
	d.Description, _ = e.description.Value()
	d.Tags, _ = e.tags.Value()
	d.Notes, _ = e.notes.Value()
	d.Date, _ = e.date.Value()

	sections, _ := e.sections.Value()
	for _, s := range sections {
		var sd SectionDraft
		sd.Title, _ = s.title.Value()
		sd.Content, _ = s.content.Value()
		sd.Notes, _ = s.notes.Value()
		d.Sections = append(d.Sections, sd)
	}
	return d, nil
}

// Draft reads the whole MOC back into a draft.
func (m *MOC) Draft(ctx context.Context) (MOCDraft, error) {
	if err := m.FillCache(ctx); err != nil {
		return MOCDraft{}, err
	}
	d := MOCDraft{UID: m.uid}
	d.Title, _ = m.title.Value()
	d.Description, _ = m.description.Value()
	d.Tags, _ = m.tags.Value()
	d.Notes, _ = m.notes.Value()

	collections, _ := m.collections.Value()
	for _, c := range collections {
		var cd CollectionDraft
		cd.Title, _ = c.title.Value()
		cd.Notes, _ = c.notes.Value()
		cd.Include, _ = c.include.Value()
		d.Collections = append(d.Collections, cd)
	}
	return d, nil
}
