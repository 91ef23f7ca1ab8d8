package input

import (
	"github.com/pelletier/go-toml/v2"

	"github.com/roach88/diary/internal/entity"
)

type entryDoc struct {
	Entry   entryTable     `toml:"entry"`
	Section []sectionTable `toml:"section,omitempty"`
}

type entryTable struct {
	UID         string         `toml:"uid"`
	Title       string         `toml:"title"`
	Description string         `toml:"description"`
	Date        toml.LocalDate `toml:"date"`
	Tags        []string       `toml:"tags"`
	Notes       []string       `toml:"notes"`
}

type sectionTable struct {
	Title    string   `toml:"title"`
	Notes    []string `toml:"notes"`
	Contents string   `toml:"contents,multiline"`
}

type mocDoc struct {
	IsMOC      bool              `toml:"is-moc"`
	MOC        mocTable          `toml:"moc"`
	Collection []collectionTable `toml:"collection,omitempty"`
}

type mocTable struct {
	UID         string   `toml:"uid"`
	Title       string   `toml:"title"`
	Description string   `toml:"description"`
	Tags        []string `toml:"tags"`
	Notes       []string `toml:"notes"`
}

type collectionTable struct {
	Title   string   `toml:"title"`
	Notes   []string `toml:"notes"`
	Include []string `toml:"include"`
}

// EncodeEntry renders d as a commit file that Decode accepts. Section
// content is written inline.
func EncodeEntry(d entity.EntryDraft) ([]byte, error) {
	doc := entryDoc{
		Entry: entryTable{
			UID:         d.UID,
			Title:       d.Title,
			Description: d.Description,
			Date: toml.LocalDate{
				Year:  int(d.Date.Year),
				Month: int(d.Date.Month),
				Day:   int(d.Date.Day),
			},
			Tags:  nonNil(d.Tags),
			Notes: nonNil(d.Notes),
		},
	}
	for _, s := range d.Sections {
		doc.Section = append(doc.Section, sectionTable{
			Title:    s.Title,
			Notes:    nonNil(s.Notes),
			Contents: s.Content,
		})
	}
	return toml.Marshal(doc)
}

// EncodeMOC renders d as a commit file with is-moc set.
func EncodeMOC(d entity.MOCDraft) ([]byte, error) {
	doc := mocDoc{
		IsMOC: true,
		MOC: mocTable{
			UID:         d.UID,
			Title:       d.Title,
			Description: d.Description,
			Tags:        nonNil(d.Tags),
			Notes:       nonNil(d.Notes),
		},
	}
	for _, c := range d.Collections {
		doc.Collection = append(doc.Collection, collectionTable{
			Title:   c.Title,
			Notes:   nonNil(c.Notes),
			Include: nonNil(c.Include),
		})
	}
	return toml.Marshal(doc)
}

// nonNil keeps empty lists in the output; a missing notes key would not
// decode again.
func nonNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

