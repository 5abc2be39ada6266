package coupon

import (
	"bufio"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// cancelCheckInterval is how many lines are read between context checks.
const cancelCheckInterval = 100_000

type fileLoader struct {
	dir    string
	logger zerolog.Logger
}

// NewFileLoader creates a Loader reading code files from the local file system.
func NewFileLoader(logger zerolog.Logger) Loader {
	return NewFileLoaderIn("", logger)
}

// NewFileLoaderIn creates a file Loader resolving relative paths against dir.
func NewFileLoaderIn(dir string, logger zerolog.Logger) Loader {
	return &fileLoader{
		dir:    dir,
		logger: logger.With().Str("component", "code-file-loader").Logger(),
	}
}

func (l *fileLoader) Load(ctx context.Context, path string) (CodeSet, error) {
	if l.dir != "" && !filepath.IsAbs(path) {
		path = filepath.Join(l.dir, path)
	}
	file, err := os.Open(path)
	if err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("failed to open code file")
		return nil, fmt.Errorf("failed to open code file %s: %w", path, err)
	}
	defer file.Close()

	set, err := readCodes(ctx, file)
	if err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("failed to read code file")
		return nil, fmt.Errorf("failed to read code file %s: %w", path, err)
	}

	l.logger.Info().
		Str("file", path).
		Int("codes_loaded", set.Size()).
		Msg("code file loaded")
	return set, nil
}

// readCodes decompresses r and collects one trimmed code per non-blank line.
func readCodes(ctx context.Context, r io.Reader) (*codeSet, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gz.Close()

	set := newCodeSet()
	scanner := bufio.NewScanner(gz)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	lines := 0
	for scanner.Scan() {
		if lines%cancelCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		lines++

		if code := strings.TrimSpace(scanner.Text()); code != "" {
			set.add(code)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan codes: %w", err)
	}
	return set, nil
}
