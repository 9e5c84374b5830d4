package walk

import (
	"context"

	"github.com/spf13/afero"

	internal "github.com/t3hmun/t3hmun-walk/internal/walk"
)

// Re-export the types and constants of the internal package.
type (
	// DirPredicate decides whether a directory is descended into.
	DirPredicate = internal.DirPredicate

	// FilePredicate decides whether a file is included in the result.
	FilePredicate = internal.FilePredicate

	// DoneFunc receives the outcome of a callback-style walk.
	DoneFunc = internal.DoneFunc

	// Result is the single value delivered by Go.
	Result = internal.Result

	// Walker runs walks with a fixed accessor, logger and progress callback.
	Walker = internal.Walker

	// Options configures a Walker.
	Options = internal.Options

	// Stats holds counters for a walk.
	Stats = internal.Stats

	// ProgressFn receives periodic Stats snapshots.
	ProgressFn = internal.ProgressFn

	// LogLevel defines the verbosity of logging.
	LogLevel = internal.LogLevel

	// FS is the filesystem accessor a Walker lists and inspects through.
	FS = internal.FS

	// Kind classifies an inspected entry.
	Kind = internal.Kind

	// ListingError reports a directory that could not be listed.
	ListingError = internal.ListingError

	// InspectionError reports an entry that could not be inspected.
	InspectionError = internal.InspectionError

	// PredicateError reports a predicate that panicked.
	PredicateError = internal.PredicateError

	// WatchOptions configures Watch.
	WatchOptions = internal.WatchOptions

	// WatchResult is one listing delivered by Watch.
	WatchResult = internal.WatchResult

	// WatchHandler receives every listing produced by Watch.
	WatchHandler = internal.WatchHandler
)

// Re-export constants
const (
	LogLevelError = internal.LogLevelError
	LogLevelWarn  = internal.LogLevelWarn
	LogLevelInfo  = internal.LogLevelInfo
	LogLevelDebug = internal.LogLevelDebug

	KindOther     = internal.KindOther
	KindFile      = internal.KindFile
	KindDirectory = internal.KindDirectory

	DefaultProgressInterval = internal.DefaultProgressInterval
	DefaultDebounce         = internal.DefaultDebounce
)

// WalkAll lists every file below dir and calls onDone exactly once with the
// result or the first error.
func WalkAll(dir string, onDone DoneFunc) {
	internal.WalkAll(dir, onDone)
}

// WalkWhere lists the files below dir accepted by filePred, pruning
// directories rejected by dirPred, and calls onDone exactly once.
func WalkWhere(dir string, dirPred DirPredicate, filePred FilePredicate, onDone DoneFunc) {
	internal.WalkWhere(dir, dirPred, filePred, onDone)
}

// All is the blocking form of WalkAll.
func All(ctx context.Context, dir string) ([]string, error) {
	return internal.All(ctx, dir)
}

// Where is the blocking form of WalkWhere.
func Where(ctx context.Context, dir string, dirPred DirPredicate, filePred FilePredicate) ([]string, error) {
	return internal.Where(ctx, dir, dirPred, filePred)
}

// Go runs Where in the background and delivers its outcome on the returned
// channel, which is closed afterwards.
func Go(ctx context.Context, dir string, dirPred DirPredicate, filePred FilePredicate) <-chan Result {
	return internal.Go(ctx, dir, dirPred, filePred)
}

// New creates a Walker. The zero Options walk the operating system
// filesystem without a concurrency cap and log errors only.
func New(opts Options) *Walker {
	return internal.New(opts)
}

// NewOSFS returns the accessor for the operating system filesystem.
func NewOSFS() FS {
	return internal.NewOSFS()
}

// NewAferoFS adapts an afero filesystem, such as afero.NewMemMapFs, to FS.
func NewAferoFS(fs afero.Fs) FS {
	return internal.NewAferoFS(fs)
}

// NewLimitFS caps the number of in-flight calls made to next at n.
func NewLimitFS(next FS, n int) FS {
	return internal.NewLimitFS(next, n)
}
