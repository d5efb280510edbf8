package cli

import (
	"os"
	"path/filepath"
	"slices"

	"github.com/ardnew/mung"

	"github.com/ardnew/permute/pkg"
)

const (
	// baseConfig is the base name of the configuration files.
	baseConfig = "config"

	// envPath names the environment variable, after [pkg.EnvPrefix], that
	// lists script directories.
	envPath = "PATH"
)

// defaultDirMode is the default permission mode for created directories.
var defaultDirMode os.FileMode = 0o700

// configPath returns the path formed by joining the global configuration
// directory path with the given path elements.
//
// If no elements are given, it is equivalent to calling [pkg.ConfigDir].
func configPath(elem ...string) string {
	return filepath.Join(append([]string{pkg.ConfigDir()}, elem...)...)
}

// mkdirAllRequired creates all required runtime directories.
func mkdirAllRequired() error {
	if err := os.MkdirAll(pkg.ConfigDir(), defaultDirMode); err != nil {
		return err
	}

	return os.MkdirAll(pkg.CacheDir(), defaultDirMode)
}

// searchPath returns the directories searched for script files: dirs given
// on the command line first, then those listed in the environment variable
// named by [pkg.EnvPrefix] and envPath. Duplicates and entries that are not
// directories are removed.
func searchPath(getenv func(string) string, dirs ...string) []string {
	list := mung.Make(
		mung.WithSubjectItems(getenv(pkg.EnvPrefix()+envPath)),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(dirs...),
		mung.WithFilter(isDir),
	).String()

	if list == "" {
		return nil
	}

	var path []string

	for _, dir := range filepath.SplitList(list) {
		if dir != "" && !slices.Contains(path, dir) {
			path = append(path, dir)
		}
	}

	return path
}

func isDir(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}
