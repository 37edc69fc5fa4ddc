package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/klauspost/compress/gzip"

	"github.com/willibrandon/squeal/internal/dispatch"
)

// Options controls a file export.
type Options struct {
	Format Format
	Gzip   bool
}

// Result describes a finished file export.
type Result struct {
	FilePath string
	RowCount int
	Bytes    int64
	Format   Format
}

// ToFile exports res to path. The format extension (and .gz) is appended when
// missing and parent directories are created. Nothing is created for ErrNoData.
func ToFile(res dispatch.Result, path string, opts Options) (*Result, error) {
	if !res.HasRows() {
		return nil, ErrNoData
	}

	absPath, err := expandPath(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}
	absPath = withExt(absPath, opts)

	if err := os.MkdirAll(filepath.Dir(absPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	var w io.Writer = file
	var gz *gzip.Writer
	if opts.Gzip {
		gz = gzip.NewWriter(file)
		w = gz
	}

	n, err := Write(w, res, opts.Format)
	if err != nil {
		return nil, err
	}
	if gz != nil {
		if err := gz.Close(); err != nil {
			return nil, fmt.Errorf("failed to finish gzip stream: %w", err)
		}
	}

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat export: %w", err)
	}

	return &Result{
		FilePath: absPath,
		RowCount: n,
		Bytes:    info.Size(),
		Format:   opts.Format,
	}, nil
}

func withExt(path string, opts Options) string {
	if opts.Gzip {
		path = trimSuffixFold(path, ".gz")
	}
	if !hasSuffixFold(path, opts.Format.Ext()) {
		path += opts.Format.Ext()
	}
	if opts.Gzip {
		path += ".gz"
	}
	return path
}

// hasSuffixFold compares an ASCII suffix case-insensitively without changing the
// byte length of path.
func hasSuffixFold(path, suffix string) bool {
	return len(path) >= len(suffix) && strings.EqualFold(path[len(path)-len(suffix):], suffix)
}

func trimSuffixFold(path, suffix string) string {
	if hasSuffixFold(path, suffix) {
		return path[:len(path)-len(suffix)]
	}
	return path
}

// expandPath expands ~ to the home directory and returns an absolute path.
func expandPath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("empty path")
	}

	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
	}

	return filepath.Abs(path)
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// DefaultFilename builds "<title>-<timestamp><ext>" with the title made file-safe.
func DefaultFilename(title string, at time.Time, f Format) string {
	base := strings.Trim(unsafeName.ReplaceAllString(title, "-"), "-.")
	if base == "" {
		base = "result"
	}
	return fmt.Sprintf("%s-%s%s", base, at.Format("20060102-150405"), f.Ext())
}

// FormatSuccess returns the notice shown after an export.
func FormatSuccess(r *Result) string {
	return fmt.Sprintf("Exported %d rows to %s (%s): %s",
		r.RowCount, r.Format, humanize.Bytes(uint64(r.Bytes)), r.FilePath)
}
