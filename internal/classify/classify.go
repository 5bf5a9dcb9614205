// Package classify maps repository paths onto languages and file roles
// using static tables. All predicates are pure functions over the
// posix-style paths returned by the GitHub contents API.
package classify

import (
	"path"
	"strings"
)

// LanguageOf returns the display language for a file path. Extensionless
// well-known filenames (Dockerfile, Makefile) are resolved by basename;
// anything unrecognized is "Other".
func LanguageOf(filePath string) string {
	base := path.Base(filePath)
	if lang, ok := languageByFilename[base]; ok {
		return lang
	}
	ext := strings.ToLower(path.Ext(base))
	if lang, ok := languageByExtension[ext]; ok {
		return lang
	}
	return "Other"
}

// IsBinary reports whether the file extension marks binary content.
func IsBinary(filePath string) bool {
	ext := strings.ToLower(path.Ext(filePath))
	_, ok := binaryExtensions[ext]
	return ok
}

// IsDependencyFile reports whether the basename is a known dependency or
// build manifest. Matching is case-insensitive.
func IsDependencyFile(filePath string) bool {
	base := strings.ToLower(path.Base(filePath))
	_, ok := dependencyFilenames[base]
	return ok
}

// IsCICDFile reports whether the path belongs to a CI/CD configuration,
// matched as a lowercase substring anywhere in the path.
func IsCICDFile(filePath string) bool {
	lower := strings.ToLower(filePath)
	for _, fragment := range cicdPathFragments {
		if strings.Contains(lower, fragment) {
			return true
		}
	}
	return false
}

// IsTestFile reports whether the path looks like a test file. Directory
// patterns ("/tests/") match anywhere in the path, infix patterns
// ("_test.", ".spec.") match inside the basename, and bare patterns
// ("test_", "spec.") must prefix the basename so that names like
// "contest.py" do not match.
func IsTestFile(filePath string) bool {
	lower := strings.ToLower(filePath)
	base := path.Base(lower)
	// Leading slash so "/tests/" also matches a top-level tests dir.
	slashed := "/" + lower
	for _, pattern := range testPathPatterns {
		switch {
		case strings.Contains(pattern, "/"):
			if strings.Contains(slashed, pattern) {
				return true
			}
		case strings.HasPrefix(pattern, "_") || strings.HasPrefix(pattern, "."):
			if strings.Contains(base, pattern) {
				return true
			}
		default:
			if strings.HasPrefix(base, pattern) {
				return true
			}
		}
	}
	return false
}

// IsExcluded reports whether a path should be skipped entirely: any
// directory segment in the excluded set, or a binary extension. The
// empty path is never excluded.
func IsExcluded(filePath string) bool {
	if filePath == "" {
		return false
	}
	for _, segment := range strings.Split(filePath, "/") {
		if _, ok := excludedDirectories[strings.ToLower(segment)]; ok {
			return true
		}
	}
	return IsBinary(filePath)
}

// IsExcludedDir reports whether a directory name itself is in the
// excluded set. Used to prune traversal before descending.
func IsExcludedDir(name string) bool {
	_, ok := excludedDirectories[strings.ToLower(name)]
	return ok
}
