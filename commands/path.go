package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/user"
	"path/filepath"
	"strings"
)

// ResolvePath expands a leading ~ or ~user, makes the path absolute and
// resolves symlinks. The path must exist and must not be a directory.
func ResolvePath(path string) (string, error) {
	expanded, err := expandHome(path)
	if err != nil {
		return "", err
	}

	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(abs)
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w: %s", ErrPathNotFound, abs)
	} else if err != nil {
		return "", err
	} else if info.IsDir() {
		return "", fmt.Errorf("%s is a directory", abs)
	}

	return filepath.EvalSymlinks(abs)
}

func expandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	name, rest := path[1:], ""
	if i := strings.IndexFunc(name, isSeparator); i >= 0 {
		name, rest = name[:i], name[i+1:]
	}

	var home string
	if name == "" {
		dir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}

		home = dir
	} else if u, err := user.Lookup(name); err != nil {
		return path, nil
	} else {
		home = u.HomeDir
	}

	return filepath.Join(home, rest), nil
}

func isSeparator(r rune) bool {
	return r == '/' || r == filepath.Separator
}
