package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/roach88/diary/internal/config"
	"github.com/roach88/diary/internal/testutil"
)

// harness runs diary commands against a private home directory.
type harness struct {
	t        *testing.T
	home     string
	env      map[string]string
	clock    *testutil.FixedClock
	operator *testutil.Operator
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	user := t.TempDir()
	return &harness{
		t:        t,
		home:     filepath.Join(user, ".diary-cli"),
		env:      map[string]string{"HOME": user},
		clock:    testutil.NewFixedClock(time.Date(2023, 8, 21, 12, 0, 0, 0, time.UTC)),
		operator: testutil.NewOperator(),
	}
}

// run executes one command line and returns stdout, stderr and the error.
func (h *harness) run(args ...string) (string, string, error) {
	h.t.Helper()
	opts := &RootOptions{
		Getenv: testutil.Env(h.env),
		Prompt: h.operator.Prompt,
		Now:    h.clock.Now,
	}
	cmd := newRootCommand(opts)

	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetIn(bytes.NewReader(nil))
	cmd.SetArgs(append([]string{"--retries", "0"}, args...))

	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

// mustRun executes a command line that has to succeed and returns stdout.
func (h *harness) mustRun(args ...string) string {
	h.t.Helper()
	out, errOut, err := h.run(args...)
	require.NoError(h.t, err, "diary %v\nstdout:\n%s\nstderr:\n%s", args, out, errOut)
	return out
}

// file writes content to a fresh file and returns its path.
func (h *harness) file(name, content string) string {
	h.t.Helper()
	path := filepath.Join(h.t.TempDir(), name)
	require.NoError(h.t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func (h *harness) configFile(body string) {
	h.t.Helper()
	require.NoError(h.t, os.MkdirAll(h.home, 0o755))
	require.NoError(h.t, os.WriteFile(filepath.Join(h.home, config.FileName), []byte(body), 0o644))
}

const seaWalk = `
[entry]
uid = "sea-walk"
title = "Sea walk"
description = "Along the coast"
date = 2023-08-21
tags = ["walks", "sea"]
notes = ["windy", "cold"]

[[section]]
title = "Morning"
notes = []
contents = "Left early.\n"
`

const hillWalk = `
[entry]
uid = "hill-walk"
title = "Hill walk"
description = "Up the hill"
date = 2023-08-15
tags = ["walks"]
notes = []
`

const walksMOC = `
is-moc = true

[moc]
uid = "walks"
title = "Walks"
description = "All walks"
tags = ["index"]
notes = []

[[collection]]
title = "All"
notes = []
include = ["walks"]
`

func newOperator(answers ...string) *testutil.Operator {
	return testutil.NewOperator(answers...)
}
