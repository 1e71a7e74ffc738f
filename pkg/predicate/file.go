package predicate

import (
	"os"
	"path/filepath"
)

// IsExistingFile is satisfied by paths naming an existing regular
// file. A relative path is resolved against the optional base path.
func IsExistingFile(basePath ...string) Predicate {
	base := first(basePath)
	return newLeaf("is_existing_file",
		withBase("is an existing file", base),
		func(v any) bool {
			info, ok := stat(v, base)
			return ok && !info.IsDir()
		})
}

// IsNonExistingFile is satisfied by paths where no regular file
// exists.
func IsNonExistingFile(basePath ...string) Predicate {
	base := first(basePath)
	return newLeaf("is_non_existing_file",
		withBase("is a non existing file", base),
		func(v any) bool {
			if _, ok := pathOf(v); !ok {
				return false
			}
			info, ok := stat(v, base)
			return !ok || info.IsDir()
		})
}

// IsExistingDirectory is satisfied by paths naming an existing
// directory. A relative path is resolved against the optional base
// path.
func IsExistingDirectory(basePath ...string) Predicate {
	base := first(basePath)
	return newLeaf("is_existing_directory",
		withBase("is an existing directory", base),
		func(v any) bool {
			info, ok := stat(v, base)
			return ok && info.IsDir()
		})
}

// IsNonExistingDirectory is satisfied by paths where no directory
// exists.
func IsNonExistingDirectory(basePath ...string) Predicate {
	base := first(basePath)
	return newLeaf("is_non_existing_directory",
		withBase("is a non existing directory", base),
		func(v any) bool {
			if _, ok := pathOf(v); !ok {
				return false
			}
			info, ok := stat(v, base)
			return !ok || !info.IsDir()
		})
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func withBase(description, base string) string {
	if base == "" {
		return description
	}
	return description + " in basepath " + base
}

func pathOf(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok && s != ""
}

func stat(v any, base string) (os.FileInfo, bool) {
	path, ok := pathOf(v)
	if !ok {
		return nil, false
	}
	if base != "" && !filepath.IsAbs(path) {
		path = filepath.Join(base, path)
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, false
	}
	return info, true
}
