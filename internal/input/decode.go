// Package input turns commit files into validated entity drafts and back.
//
// A commit file is TOML. Decoding happens in three passes, all in memory:
// the TOML is parsed, its shape is unified against an embedded CUE schema,
// and the typed drafts are extracted, reading any section files on the way.
// Every problem found is reported together as ValidationErrors; nothing is
// returned for a file with any problem.
package input

import (
	_ "embed"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"github.com/pelletier/go-toml/v2"

	"github.com/roach88/diary/internal/entity"
)

//go:embed schema.cue
var schemaCUE string

// Input is a decoded commit file. Exactly one of Entry and MOC is set.
type Input struct {
	IsMOC bool
	Entry *entity.EntryDraft
	MOC   *entity.MOCDraft
}

// UID returns the uid of whichever draft is set.
func (in *Input) UID() string {
	if in.IsMOC {
		return in.MOC.UID
	}
	return in.Entry.UID
}

// ReadFileFunc reads the file a section's path refers to.
type ReadFileFunc func(path string) ([]byte, error)

// Decode parses and validates a commit file. source names the file in
// error messages.
func Decode(source string, data []byte, readFile ReadFileFunc) (*Input, error) {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, ValidationErrors{parseError(source, err)}
	}
	if raw == nil {
		raw = map[string]any{}
	}
	raw = normalize(raw).(map[string]any)

	if errs := checkShape(source, raw); len(errs) > 0 {
		return nil, errs
	}

	d := &decoder{source: source, readFile: readFile}
	in := &Input{}
	if v, ok := raw["is-moc"].(bool); ok {
		in.IsMOC = v
	}

	if in.IsMOC {
		in.MOC = d.moc(raw)
	} else {
		in.Entry = d.entry(raw)
	}

	if len(d.errs) > 0 {
		return nil, d.errs
	}
	return in, nil
}

func parseError(source string, err error) ValidationError {
	ve := ValidationError{
		Entity:  source,
		Message: err.Error(),
		Code:    ErrCodeParse,
	}
	var derr *toml.DecodeError
	if errors.As(err, &derr) {
		ve.Line, _ = derr.Position()
	}
	return ve
}

// normalize turns TOML date and time values into strings so the CUE
// schema sees plain data.
func normalize(v any) any {
	switch x := v.(type) {
	case map[string]any:
		for k, e := range x {
			x[k] = normalize(e)
		}
		return x
	case []any:
		for i, e := range x {
			x[i] = normalize(e)
		}
		return x
	case []map[string]any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = normalize(e)
		}
		return out
	case toml.LocalDate:
		return x.String()
	case toml.LocalDateTime:
		return x.String()
	case toml.LocalTime:
		return x.String()
	case time.Time:
		return x.Format(time.RFC3339Nano)
	}
	return v
}

// checkShape unifies raw with the embedded schema.
func checkShape(source string, raw map[string]any) ValidationErrors {
	cctx := cuecontext.New()
	schema := cctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		// The schema is embedded; failing to compile it is a programming error.
		panic(fmt.Sprintf("input: compile schema: %v", err))
	}

	v := schema.LookupPath(cue.ParsePath("#Input")).Unify(cctx.Encode(raw))
	err := v.Validate(cue.Concrete(true))
	if err == nil {
		return nil
	}

	var errs ValidationErrors
	for _, e := range cueerrors.Errors(err) {
		format, args := e.Msg()
		msg := fmt.Sprintf(format, args...)
		code := ErrCodeWrongType
		if strings.Contains(msg, "incomplete value") {
			code = ErrCodeMissingField
			msg = "is required"
		}
		path := fieldPath(e.Path())
		errs = append(errs, ValidationError{
			Entity:  source,
			Field:   strings.Join(path, "."),
			Message: msg,
			Code:    code,
		})
	}
	return errs
}

// fieldPath drops the schema root and unquotes labels such as "is-moc".
func fieldPath(path []string) []string {
	if len(path) > 0 && path[0] == "#Input" {
		path = path[1:]
	}
	out := make([]string, len(path))
	for i, p := range path {
		if u, err := strconv.Unquote(p); err == nil {
			p = u
		}
		out[i] = p
	}
	return out
}

// decoder extracts typed drafts from a shape-checked table, collecting
// every semantic error.
type decoder struct {
	source   string
	readFile ReadFileFunc
	errs     ValidationErrors
}

func (d *decoder) fail(subject, field, code, format string, args ...any) {
	d.errs = append(d.errs, ValidationError{
		Entity:  subject,
		Field:   field,
		Message: fmt.Sprintf(format, args...),
		Code:    code,
	})
}

func (d *decoder) entry(raw map[string]any) *entity.EntryDraft {
	t, ok := raw["entry"].(map[string]any)
	if !ok {
		d.fail(d.source, "entry", ErrCodeMissingTable, "an [entry] table is required unless is-moc = true")
		return nil
	}

	uid := str(t, "uid")
	name := fmt.Sprintf("entry %q", uid)
	e := &entity.EntryDraft{
		UID:         uid,
		Title:       str(t, "title"),
		Description: str(t, "description"),
		Notes:       strs(t, "notes"),
		Tags:        d.tags(name, t),
	}

	date, err := entity.ParseDate(str(t, "date"))
	if err != nil {
		d.fail(name, "date", ErrCodeInvalidDate, "%v", err)
	}
	e.Date = date

	for i, s := range tables(raw, "section") {
		e.Sections = append(e.Sections, d.section(fmt.Sprintf("%s, section %d", name, i), s))
	}
	return e
}

func (d *decoder) section(name string, t map[string]any) entity.SectionDraft {
	s := entity.SectionDraft{
		Title: str(t, "title"),
		Notes: strs(t, "notes"),
	}

	path, hasPath := t["path"].(string)
	contents, hasContents := t["contents"].(string)
	switch {
	case hasPath:
		if d.readFile == nil {
			d.fail(name, "path", ErrCodeSectionBody, "section files cannot be read here")
			break
		}
		b, err := d.readFile(path)
		if err != nil {
			d.fail(name, "path", ErrCodeSectionBody, "reading %q: %v", path, err)
			break
		}
		s.Content = string(b)
	case hasContents:
		s.Content = contents
	default:
		d.fail(name, "path", ErrCodeSectionBody, "either path or contents is required")
	}
	return s
}

func (d *decoder) moc(raw map[string]any) *entity.MOCDraft {
	t, ok := raw["moc"].(map[string]any)
	if !ok {
		d.fail(d.source, "moc", ErrCodeMissingTable, "a [moc] table is required when is-moc = true")
		return nil
	}

	uid := str(t, "uid")
	name := fmt.Sprintf("moc %q", uid)
	m := &entity.MOCDraft{
		UID:         uid,
		Title:       str(t, "title"),
		Description: str(t, "description"),
		Notes:       strs(t, "notes"),
		Tags:        d.tags(name, t),
	}

	for _, c := range tables(raw, "collection") {
		m.Collections = append(m.Collections, entity.CollectionDraft{
			Title:   str(c, "title"),
			Notes:   strs(c, "notes"),
			Include: normalizeTags(strs(c, "include")),
		})
	}
	return m
}

// tags reads "tags", accepting "groups" as its older name.
func (d *decoder) tags(name string, t map[string]any) []string {
	if _, ok := t["tags"]; ok {
		return normalizeTags(strs(t, "tags"))
	}
	if _, ok := t["groups"]; ok {
		return normalizeTags(strs(t, "groups"))
	}
	d.fail(name, "tags", ErrCodeMissingField, "is required")
	return nil
}

func normalizeTags(tags []string) []string {
	for i, t := range tags {
		tags[i] = entity.NormalizeTag(t)
	}
	return tags
}

func str(t map[string]any, key string) string {
	s, _ := t[key].(string)
	return s
}

func strs(t map[string]any, key string) []string {
	raw, _ := t[key].([]any)
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func tables(raw map[string]any, key string) []map[string]any {
	items, _ := raw[key].([]any)
	out := make([]map[string]any, 0, len(items))
	for _, v := range items {
		if t, ok := v.(map[string]any); ok {
			out = append(out, t)
		}
	}
	return out
}
