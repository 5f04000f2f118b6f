package common

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/Laisky/errors/v2"
)

var windowsEnvPattern = regexp.MustCompile(`%([A-Za-z0-9_]+)%`)

// ExpandPath resolves $VAR, %VAR% and a leading ~ in a user supplied directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}

	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}

	expanded := os.ExpandEnv(path)
	return windowsEnvPattern.ReplaceAllStringFunc(expanded, func(match string) string {
		key := strings.Trim(match, "%")
		if val, ok := os.LookupEnv(key); ok && val != "" {
			return val
		}
		return match
	})
}

// EnsureDir expands path, makes it absolute and creates it.
func EnsureDir(path string) (string, error) {
	expanded, err := filepath.Abs(ExpandPath(path))
	if err != nil {
		return "", errors.Wrapf(err, "resolve %q", path)
	}
	if err = os.MkdirAll(expanded, 0o755); err != nil {
		return "", errors.Wrapf(err, "create %q", expanded)
	}
	return expanded, nil
}
