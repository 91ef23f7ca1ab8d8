package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/roach88/diary/internal/archive"
)

// isTerminal is a test seam for term.IsTerminal.
var isTerminal = term.IsTerminal

// terminalPrompt asks for a confirmation phrase on w and reads one line of
// r per attempt. The reader is shared across attempts so piped answers are
// consumed in order.
func terminalPrompt(r io.Reader, w io.Writer) archive.Prompt {
	reader := bufio.NewReader(r)
	interactive := false
	if f, ok := r.(*os.File); ok {
		interactive = isTerminal(int(f.Fd()))
	}

	return func(ctx context.Context, phrase string) (string, error) {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if interactive {
			fmt.Fprintf(w, "Type the following phrase to continue:\n  %s\n> ", phrase)
		} else {
			fmt.Fprintf(w, "Confirm with: %s\n", phrase)
		}
		return readLine(reader)
	}
}

// readLine returns one line without its line ending. A final line without
// a newline is returned as is.
func readLine(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
