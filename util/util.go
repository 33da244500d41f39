package util

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/adrg/xdg"
)

const cacheNamespace = "reel"

var illegalFilenameChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)

// ErrWrap returns a function that yields the given fallback value
// whenever the wrapped call fails.
func ErrWrap[T any](fallback T) func(T, error) T {
	return func(value T, err error) T {
		if err != nil {
			return fallback
		}
		return value
	}
}

// ErrSuppress drops an error that callers explicitly want to ignore.
func ErrSuppress(_ error) {}

func LegalizeFilename(name string) string {
	name = illegalFilenameChars.ReplaceAllString(name, "")
	return strings.TrimRight(strings.TrimSpace(name), ".")
}

func FileBaseStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func FileExists(path string) bool {
	stat, err := os.Stat(path)
	return err == nil && !stat.IsDir()
}

// CacheFile returns the path of a file under the user cache directory,
// falling back to the system temporary directory.
func CacheFile(name string) string {
	path, err := xdg.CacheFile(filepath.Join(cacheNamespace, name))
	if err != nil {
		return filepath.Join(os.TempDir(), cacheNamespace+"-"+name)
	}
	return path
}

// FileMoveOrCopy renames source into target, falling back to a copy
// when the two live on different filesystems.
func FileMoveOrCopy(source, target string, overwrite ...bool) error {
	if FileExists(target) && (len(overwrite) == 0 || !overwrite[0]) {
		return fmt.Errorf("%s: %w", target, os.ErrExist)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	if err := os.Rename(source, target); err == nil {
		return nil
	}

	if err := FileCopy(source, target); err != nil {
		return err
	}
	return os.Remove(source)
}

func FileCopy(source, target string) error {
	input, err := os.Open(source)
	if err != nil {
		return err
	}
	defer input.Close()

	output, err := os.Create(target)
	if err != nil {
		return err
	}
	if _, err := io.Copy(output, input); err != nil {
		return errors.Join(err, output.Close(), os.Remove(target))
	}
	return output.Close()
}

func HumanizeBytes(bytes int) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%dB", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f%cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// Excerpt truncates s to the given rune length (default 25),
// appending an ellipsis when something was cut.
func Excerpt(s string, length ...int) string {
	limit := 25
	if len(length) > 0 {
		limit = length[0]
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	return string(runes[:limit-3]) + "..."
}

func Fallback(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
