package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/roach88/diary/internal/entity"
)

// Link is one numbered line of a collection body.
type Link struct {
	UID         string
	Title       string
	Description string
	Notes       []string
}

// CollectionBody holds the items a collection's include tags select: MOCs
// first, then entries oldest first.
type CollectionBody struct {
	MOCs    []Link
	Entries []Link
}

// RenderEntry writes the markdown page for an entry.
func RenderEntry(w io.Writer, d entity.EntryDraft) error {
	p := &page{w: w}
	p.header(d.Tags, d.Title, d.Description, d.Notes)
	for _, s := range d.Sections {
		p.bullets(s.Title, s.Notes)
	}
	p.line("---")
	for _, s := range d.Sections {
		p.printf("### %s\n", s.Title)
		for _, l := range strings.Split(strings.TrimRight(s.Content, "\n"), "\n") {
			p.printf("> %s\n", l)
		}
	}
	return p.err
}

// RenderMOC writes the markdown page for a MOC. bodies lines up with
// d.Collections.
func RenderMOC(w io.Writer, d entity.MOCDraft, bodies []CollectionBody) error {
	if len(bodies) != len(d.Collections) {
		return fmt.Errorf("moc %q: %d collection bodies for %d collections", d.UID, len(bodies), len(d.Collections))
	}
	p := &page{w: w}
	p.header(d.Tags, d.Title, d.Description, d.Notes)
	for _, c := range d.Collections {
		p.bullets(c.Title, c.Notes)
	}
	p.line("---")
	for i, c := range d.Collections {
		p.printf("## %s\n", c.Title)
		p.links(bodies[i].MOCs)
		p.links(bodies[i].Entries)
	}
	return p.err
}

// page accumulates the first write error so render code stays linear.
type page struct {
	w   io.Writer
	err error
}

func (p *page) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *page) line(s string) {
	p.printf("%s\n", s)
}

func (p *page) header(tags []string, title, description string, notes []string) {
	p.line("---")
	p.line(strings.Join(append([]string{"tags: diary-cli"}, tags...), ", "))
	p.line("---")
	p.printf("# %s\n", title)
	p.line("---")
	p.printf("**Description:** %s\n", description)
	p.line("## Notes")
	for _, n := range notes {
		p.printf("- %s\n", n)
	}
}

func (p *page) bullets(title string, notes []string) {
	p.printf("- #### %s\n", title)
	for _, n := range notes {
		p.printf("\t- %s\n", n)
	}
}

func (p *page) links(links []Link) {
	for i, l := range links {
		p.printf("%d. \\[[%s](%s)\\] %s `notes: %s`\n", i+1, l.Title, l.UID, l.Description, quoteList(l.Notes))
	}
}

func quoteList(v []string) string {
	quoted := make([]string, len(v))
	for i, s := range v {
		quoted[i] = strconv.Quote(s)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
