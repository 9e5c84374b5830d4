package walk

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// FilterOptions collects the usual ways of narrowing a walk and compiles
// them into a predicate pair for Where.
type FilterOptions struct {
	SkipDirs      []string       // Base-name globs of directories not to descend into
	NamePattern   string         // Base-name glob files must match
	PathPattern   string         // Whole-path pattern files must match ('*' spans separators)
	IgnorePattern string         // Whole-path pattern of files to leave out
	Exts          []string       // Accepted extensions, e.g. ".go"
	Suffixes      []string       // Accepted path suffixes, e.g. ".keep"
	Regex         *regexp.Regexp // Pattern files must match (NFC-normalized)
	IncludeHidden bool           // Whether dot-files and dot-directories are walked
}

// Predicates returns the directory and file predicates described by o.
// A predicate is nil when o places no restriction on it.
func (o FilterOptions) Predicates() (DirPredicate, FilePredicate) {
	var dirs []DirPredicate
	var files []FilePredicate

	if len(o.SkipDirs) > 0 {
		dirs = append(dirs, ExcludeDirs(o.SkipDirs...))
	}
	if !o.IncludeHidden {
		dirs = append(dirs, DirPredicate(notHidden))
		files = append(files, FilePredicate(notHidden))
	}
	if o.NamePattern != "" {
		files = append(files, NameGlob(o.NamePattern))
	}
	if o.PathPattern != "" {
		files = append(files, PathGlob(o.PathPattern))
	}
	if o.IgnorePattern != "" {
		files = append(files, Not(PathGlob(o.IgnorePattern)))
	}
	if len(o.Exts) > 0 {
		files = append(files, HasExt(o.Exts...))
	}
	if len(o.Suffixes) > 0 {
		files = append(files, HasSuffix(o.Suffixes...))
	}
	if o.Regex != nil {
		files = append(files, Regexp(o.Regex))
	}

	var dirPred DirPredicate
	if len(dirs) > 0 {
		dirPred = DirPredicate(and(dirs))
	}
	var filePred FilePredicate
	if len(files) > 0 {
		filePred = and(files)
	}
	return dirPred, filePred
}

// HasSuffix matches paths ending in any of suffixes.
func HasSuffix(suffixes ...string) FilePredicate {
	return func(path string) bool {
		for _, s := range suffixes {
			if strings.HasSuffix(path, s) {
				return true
			}
		}
		return false
	}
}

// HasExt matches paths whose extension is one of exts. A missing leading
// dot is tolerated, so "go" and ".go" are equivalent.
func HasExt(exts ...string) FilePredicate {
	set := make(map[string]struct{}, len(exts))
	for _, e := range exts {
		if e != "" && !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		set[e] = struct{}{}
	}
	return func(path string) bool {
		_, ok := set[filepath.Ext(path)]
		return ok
	}
}

// NameGlob matches paths whose base name matches the filepath.Match pattern.
// A malformed pattern matches nothing.
func NameGlob(pattern string) FilePredicate {
	return func(path string) bool {
		matched, err := filepath.Match(pattern, filepath.Base(path))
		return err == nil && matched
	}
}

// PathGlob matches whole paths against a pattern in which '*' matches any
// run of characters, path separators included.
func PathGlob(pattern string) FilePredicate {
	pattern = fromSlash(pattern)
	return func(path string) bool {
		return pathMatch(pattern, path)
	}
}

// Regexp matches paths against re after NFC normalization, so decomposed
// names coming from some filesystems still match composed patterns.
func Regexp(re *regexp.Regexp) FilePredicate {
	return func(path string) bool {
		return re.MatchString(norm.NFC.String(path))
	}
}

// ExcludeDirs rejects directories whose base name matches any of patterns.
func ExcludeDirs(patterns ...string) DirPredicate {
	return func(path string) bool {
		base := filepath.Base(path)
		for _, p := range patterns {
			if matched, _ := filepath.Match(p, base); matched {
				return false
			}
		}
		return true
	}
}

// NoHidden rejects dot-files and dot-directories. It serves as either kind
// of predicate.
func NoHidden() func(path string) bool {
	return notHidden
}

// And holds when every predicate holds.
func And(preds ...FilePredicate) FilePredicate {
	return and(preds)
}

// Not negates pred.
func Not(pred FilePredicate) FilePredicate {
	return func(path string) bool {
		return !pred(path)
	}
}

func and[P ~func(string) bool](preds []P) P {
	return func(path string) bool {
		for _, p := range preds {
			if !p(path) {
				return false
			}
		}
		return true
	}
}

func notHidden(path string) bool {
	return !strings.HasPrefix(filepath.Base(path), ".")
}

// pathMatch reports whether path matches pattern, where '*' matches any
// sequence of characters.
func pathMatch(pattern, path string) bool {
	patternParts := strings.Split(pattern, "*")
	if len(patternParts) == 1 {
		return pattern == path
	}

	if !strings.HasPrefix(path, patternParts[0]) {
		return false
	}

	path = path[len(patternParts[0]):]
	for i := 1; i < len(patternParts)-1; i++ {
		idx := strings.Index(path, patternParts[i])
		if idx == -1 {
			return false
		}
		path = path[idx+len(patternParts[i]):]
	}

	return strings.HasSuffix(path, patternParts[len(patternParts)-1])
}

// fromSlash makes patterns written with '/' work on every platform.
func fromSlash(pattern string) string {
	if os.PathSeparator == '/' {
		return pattern
	}
	return filepath.FromSlash(pattern)
}
