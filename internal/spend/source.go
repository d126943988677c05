package spend

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/j-veylop/cc-economics/internal/logger"
	"github.com/j-veylop/cc-economics/internal/models"
)

// Source supplies the spend ledger for one granularity. A nil slice with a
// nil error means the ledger is unavailable; callers then report every spend
// field as absent.
type Source interface {
	Fetch(ctx context.Context, g models.Granularity) ([]models.SpendPeriod, error)
}

// CommandSource runs the ccusage CLI and decodes its JSON report.
type CommandSource struct {
	Bin     string
	Timeout time.Duration

	lookPath    func(string) (string, error)
	execCommand func(ctx context.Context, name string, args ...string) *exec.Cmd
}

// NewCommandSource returns a source that invokes bin.
func NewCommandSource(bin string, timeout time.Duration) *CommandSource {
	return &CommandSource{
		Bin:         bin,
		Timeout:     timeout,
		lookPath:    exec.LookPath,
		execCommand: exec.CommandContext,
	}
}

// Fetch runs `<bin> <granularity> --json`. A missing binary is not an error.
func (s *CommandSource) Fetch(ctx context.Context, g models.Granularity) ([]models.SpendPeriod, error) {
	path, err := s.lookPath(s.Bin)
	if err != nil {
		logger.Warn("ccusage not found, spend data unavailable", "bin", s.Bin)
		return nil, nil
	}

	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	cmd := s.execCommand(ctx, path, g.String(), "--json")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger.Debug("running ccusage", "path", path, "granularity", g.String())
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return nil, fmt.Errorf("ccusage %s failed: %w: %s", g, err, msg)
		}
		return nil, fmt.Errorf("ccusage %s failed: %w", g, err)
	}

	return Decode(&stdout, g)
}

// FileSource reads a ccusage JSON export from disk. The file must contain
// the section for every granularity that is requested.
type FileSource struct {
	Path string
}

// Fetch decodes the export. A missing file means spend data is unavailable.
func (s *FileSource) Fetch(_ context.Context, g models.Granularity) ([]models.SpendPeriod, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Warn("spend file not found, spend data unavailable", "path", s.Path)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open spend file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Decode(f, g)
}
