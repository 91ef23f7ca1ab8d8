package input

import (
	"fmt"
	"strings"
)

// Validation error codes (E200-E209)
const (
	ErrCodeParse        = "E200" // not valid TOML
	ErrCodeMissingField = "E201" // required field absent
	ErrCodeWrongType    = "E202" // field has the wrong shape
	ErrCodeInvalidDate  = "E203" // date is not an RFC 3339 full-date
	ErrCodeSectionBody  = "E204" // section path unreadable, or no path/contents
	ErrCodeMissingTable = "E205" // no entry/moc table for the selected kind
)

// ValidationError describes one problem with a commit file.
type ValidationError struct {
	Entity  string `json:"entity"`
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] ", e.Code)
	if e.Line > 0 {
		fmt.Fprintf(&b, "line %d: ", e.Line)
	}
	if e.Entity != "" {
		b.WriteString(e.Entity)
		b.WriteString(": ")
	}
	if e.Field != "" {
		b.WriteString(e.Field)
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	return b.String()
}

// ValidationErrors is every problem found in one commit file.
type ValidationErrors []ValidationError

func (es ValidationErrors) Error() string {
	switch len(es) {
	case 0:
		return "no validation errors"
	case 1:
		return es[0].Error()
	}
	msgs := make([]string, len(es))
	for i, e := range es {
		msgs[i] = e.Error()
	}
	return fmt.Sprintf("%d validation errors:\n  %s", len(es), strings.Join(msgs, "\n  "))
}
