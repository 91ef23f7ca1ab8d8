package archive

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/roach88/diary/internal/input"
	"github.com/roach88/diary/internal/logging"
)

// Pull renders the stored entry or MOC with uid back into a commit file at
// dir/file and returns its path. Section content is inlined.
func (a *Archive) Pull(ctx context.Context, uid string, isMOC bool, dir, file string) (string, error) {
	log := logging.Origin(a.log, "Pull")

	var (
		data []byte
		err  error
	)
	if isMOC {
		data, err = a.pullMOC(ctx, uid)
	} else {
		data, err = a.pullEntry(ctx, uid)
	}
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, file)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("pull: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("pull: %w", err)
	}
	log.Info().Str("uid", uid).Str("path", path).Msg("pulled")
	return path, nil
}

func (a *Archive) pullEntry(ctx context.Context, uid string) ([]byte, error) {
	e, err := a.GetEntry(ctx, uid)
	if err != nil {
		return nil, err
	}
	d, err := e.Draft(ctx)
	if err != nil {
		return nil, err
	}
	return input.EncodeEntry(d)
}

func (a *Archive) pullMOC(ctx context.Context, uid string) ([]byte, error) {
	m, err := a.GetMOC(ctx, uid)
	if err != nil {
		return nil, err
	}
	d, err := m.Draft(ctx)
	if err != nil {
		return nil, err
	}
	return input.EncodeMOC(d)
}
