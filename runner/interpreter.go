package runner

import (
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/ardnew/mung"
)

// DefaultInterpreters are the names tried, in order, when no interpreter is
// given explicitly.
var DefaultInterpreters = []string{"python3", "python"}

// SearchPath returns the value of PATH with dirs placed ahead of it.
func SearchPath(dirs ...string) string {
	return mung.Make(
		mung.WithSubjectItems(filepath.SplitList(os.Getenv("PATH"))...),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(dirs...),
	).String()
}

// LookPath resolves the interpreter to run. If name is empty, the
// [DefaultInterpreters] are tried in order. A name containing a path
// separator is used as given; any other name is searched for in dirs and
// then in PATH. The environment is never modified.
func LookPath(name string, dirs ...string) (string, error) {
	candidates := DefaultInterpreters
	if name != "" {
		candidates = []string{name}
	}

	path := SearchPath(dirs...)

	for _, candidate := range candidates {
		if strings.ContainsRune(candidate, os.PathSeparator) || strings.ContainsRune(candidate, '/') {
			if found, err := exec.LookPath(candidate); err == nil {
				return found, nil
			}

			continue
		}

		for _, dir := range filepath.SplitList(path) {
			if dir == "" {
				continue
			}

			if found, err := exec.LookPath(filepath.Join(dir, candidate)); err == nil {
				return found, nil
			}
		}
	}

	return "", ErrInterpreterNotFound.With(
		slog.Any("candidates", candidates),
		slog.Any("search", dirs),
	)
}
