package walk

import (
	"regexp"

	internal "github.com/t3hmun/t3hmun-walk/internal/walk"
)

// FilterOptions builds a predicate pair from common criteria.
type FilterOptions = internal.FilterOptions

// HasSuffix accepts paths ending in any of suffixes.
func HasSuffix(suffixes ...string) FilePredicate { return internal.HasSuffix(suffixes...) }

// HasExt accepts paths whose extension is one of exts, with or without the dot.
func HasExt(exts ...string) FilePredicate { return internal.HasExt(exts...) }

// NameGlob matches the base name against a filepath.Match pattern.
func NameGlob(pattern string) FilePredicate { return internal.NameGlob(pattern) }

// PathGlob matches the whole path, with * spanning separators.
func PathGlob(pattern string) FilePredicate { return internal.PathGlob(pattern) }

// Regexp matches the NFC form of the path against re.
func Regexp(re *regexp.Regexp) FilePredicate { return internal.Regexp(re) }

// ExcludeDirs rejects directories whose base name matches any pattern.
func ExcludeDirs(patterns ...string) DirPredicate { return internal.ExcludeDirs(patterns...) }

// NoHidden rejects dot entries. It converts to either predicate type.
func NoHidden() func(path string) bool { return internal.NoHidden() }

// And accepts a path when every predicate does.
func And(preds ...FilePredicate) FilePredicate { return internal.And(preds...) }

// Not inverts pred.
func Not(pred FilePredicate) FilePredicate { return internal.Not(pred) }
