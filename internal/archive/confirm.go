package archive

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/diary/internal/logging"
	"github.com/roach88/diary/internal/retryx"
)

// Prompt shows phrase to the operator and returns what they typed.
type Prompt func(ctx context.Context, phrase string) (string, error)

var errPhraseMismatch = errors.New("phrase mismatch")

// confirm asks for phrase until it is typed exactly or the retry policy
// runs out.
func confirm(ctx context.Context, opts Options, origin, phrase string, prompt Prompt) error {
	if prompt == nil {
		return fmt.Errorf("%s: %w: no prompt available", origin, ErrConfirmation)
	}
	log := logging.Origin(opts.Logger, origin)

	p := opts.Retry
	p.OnRetry = func(attempt int, err error) {
		log.Warn().Int("attempt", attempt).Msg("entered phrase incorrect, please retry")
	}
	err := retryx.Do(ctx, p, func(err error) bool { return errors.Is(err, errPhraseMismatch) },
		func(ctx context.Context) error {
			typed, err := prompt(ctx, phrase)
			if err != nil {
				return err
			}
			if strings.TrimRight(typed, "\r\n") != phrase {
				return errPhraseMismatch
			}
			return nil
		})
	if errors.Is(err, errPhraseMismatch) {
		return fmt.Errorf("%s: %w", origin, ErrConfirmation)
	}
	return err
}
