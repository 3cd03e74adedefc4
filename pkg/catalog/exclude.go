package catalog

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sdejongh/imgsweep/pkg/models"
)

// ValidatePatterns rejects exclude patterns filepath.Match cannot parse
func ValidatePatterns(patterns []string) error {
	for _, pattern := range patterns {
		p := strings.TrimSuffix(filepath.ToSlash(pattern), "/")
		p = strings.ReplaceAll(p, "**/", "")
		if _, err := filepath.Match(p, ""); err != nil {
			return &models.ConfigError{
				Field:   "exclude",
				Message: fmt.Sprintf("invalid pattern %q: %v", pattern, err),
			}
		}
	}
	return nil
}

// shouldExclude checks if a path relative to the scan root matches any pattern.
// Patterns support:
//   - Simple glob patterns on the base name: *.tmp.jpg, thumb_*
//   - Directory patterns: thumbs/, .cache/
//   - Path patterns: export/*, **/previews/*
func shouldExclude(relativePath string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}

	normalizedPath := filepath.ToSlash(relativePath)
	baseName := filepath.Base(relativePath)

	for _, pattern := range patterns {
		if pattern == "" {
			continue
		}

		normalizedPattern := filepath.ToSlash(pattern)

		// Directory pattern: prune the directory itself and anything below it
		if strings.HasSuffix(normalizedPattern, "/") {
			dirPattern := strings.TrimSuffix(normalizedPattern, "/")
			if normalizedPath == dirPattern ||
				strings.HasPrefix(normalizedPath, dirPattern+"/") ||
				strings.Contains(normalizedPath, "/"+dirPattern+"/") ||
				strings.HasSuffix(normalizedPath, "/"+dirPattern) {
				return true
			}
			continue
		}

		// **/pattern matches at any depth
		if strings.Contains(normalizedPattern, "**") {
			parts := strings.Split(normalizedPattern, "**/")
			if len(parts) == 2 && parts[0] == "" {
				suffix := parts[1]
				if matchGlob(baseName, suffix) {
					return true
				}
				if strings.HasSuffix(normalizedPath, "/"+suffix) || normalizedPath == suffix {
					return true
				}
				if matchGlobPath(normalizedPath, suffix) {
					return true
				}
			}
			continue
		}

		if strings.Contains(normalizedPattern, "/") {
			if matched, _ := filepath.Match(normalizedPattern, normalizedPath); matched {
				return true
			}
			if strings.HasSuffix(normalizedPath, normalizedPattern) {
				return true
			}
		} else if matchGlob(baseName, normalizedPattern) {
			return true
		}
	}

	return false
}

// matchGlob performs simple glob matching on a single path component
func matchGlob(name, pattern string) bool {
	matched, _ := filepath.Match(pattern, name)
	return matched
}

// matchGlobPath checks if any component of the path matches the pattern
func matchGlobPath(path, pattern string) bool {
	for _, part := range strings.Split(path, "/") {
		if matchGlob(part, pattern) {
			return true
		}
	}
	return false
}
