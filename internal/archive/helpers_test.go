package archive

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/diary/internal/logging"
	"github.com/roach88/diary/internal/retryx"
	"github.com/roach88/diary/internal/testutil"
)

// testOptions returns options for an archive in a fresh home, with a JSON
// logger writing to the returned buffer.
func testOptions(t *testing.T) (Options, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	return Options{
		Home:   t.TempDir(),
		Retry:  retryx.Policy{Attempts: 2, Delay: 1},
		Logger: logging.New(&buf, logging.Options{JSON: true, Verbose: true}),
	}, &buf
}

func initArchive(t *testing.T, opts Options) *Archive {
	t.Helper()
	a, err := Init(context.Background(), opts)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a
}

func entryTOML(uid, date string, tags ...string) []byte {
	quoted := make([]string, len(tags))
	for i, tag := range tags {
		quoted[i] = fmt.Sprintf("%q", tag)
	}
	return []byte(fmt.Sprintf(`
[entry]
uid = %q
title = "Title of %s"
description = "Description of %s"
date = %s
tags = [%s]
notes = ["first note", "second note"]

[[section]]
title = "Body"
notes = ["section note"]
contents = "Line one.\nLine two.\n"
`, uid, uid, uid, date, strings.Join(quoted, ", ")))
}

func mocTOML(uid string, include ...string) []byte {
	quoted := make([]string, len(include))
	for i, tag := range include {
		quoted[i] = fmt.Sprintf("%q", tag)
	}
	return []byte(fmt.Sprintf(`
is-moc = true

[moc]
uid = %q
title = "MOC %s"
description = "Index of %s"
tags = ["index"]
notes = []

[[collection]]
title = "Everything"
notes = []
include = [%s]
`, uid, uid, uid, strings.Join(quoted, ", ")))
}

func commit(t *testing.T, a *Archive, data []byte) CommitResult {
	t.Helper()
	res, err := a.Commit(context.Background(), "test.toml", data, nil)
	require.NoError(t, err)
	return res
}

// typed returns a prompt that answers with each response in turn.
func typed(responses ...string) Prompt {
	return testutil.NewOperator(responses...).Prompt
}

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}

// captureLogs points opts at a fresh log buffer.
func captureLogs(opts *Options) *bytes.Buffer {
	var buf bytes.Buffer
	opts.Logger = logging.New(&buf, logging.Options{JSON: true, Verbose: true})
	return &buf
}
