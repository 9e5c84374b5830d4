// Package walk lists the files of a directory tree using concurrent filesystem I/O.
//
// Every directory fans out one unit of work per entry; sub-directories recurse
// with the same shape and their file lists are joined back into the parent's.
// The first failure observed anywhere in the tree fails the whole walk.
package walk

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sourcegraph/conc/panics"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultProgressInterval is how often Options.Progress is called during a walk.
const DefaultProgressInterval = 500 * time.Millisecond

// DirPredicate decides whether the walk descends into the directory at path.
type DirPredicate func(path string) bool

// FilePredicate decides whether the file at path is part of the result.
type FilePredicate func(path string) bool

// DoneFunc receives the outcome of a walk. Exactly one of err and files is set.
type DoneFunc func(err error, files []string)

// ProgressFn is called periodically with traversal statistics.
// Implementations must be thread-safe as this may be called concurrently.
type ProgressFn func(stats Stats)

// Stats holds traversal statistics that are updated atomically during the walk.
type Stats struct {
	FilesFound     int64         // Files included in the result
	DirsListed     int64         // Directories successfully listed
	DirsPruned     int64         // Directories rejected by the directory predicate
	EntriesSkipped int64         // Entries that were neither file nor directory
	ErrorCount     int64         // Listing, inspection and predicate failures
	ElapsedTime    time.Duration // Total time elapsed
	FilesPerSec    float64       // Files found per second
}

// snapshot copies the counters and fills in the derived fields.
func (s *Stats) snapshot(start time.Time) Stats {
	out := Stats{
		FilesFound:     atomic.LoadInt64(&s.FilesFound),
		DirsListed:     atomic.LoadInt64(&s.DirsListed),
		DirsPruned:     atomic.LoadInt64(&s.DirsPruned),
		EntriesSkipped: atomic.LoadInt64(&s.EntriesSkipped),
		ErrorCount:     atomic.LoadInt64(&s.ErrorCount),
		ElapsedTime:    time.Since(start),
	}
	if sec := out.ElapsedTime.Seconds(); sec > 0 {
		out.FilesPerSec = float64(out.FilesFound) / sec
	}
	return out
}

// LogLevel defines the verbosity of logging.
type LogLevel int

const (
	LogLevelError LogLevel = iota
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
)

// Options configures a Walker. The zero value walks the local filesystem
// with unbounded concurrency and error-level logging.
type Options struct {
	FS             FS          // Filesystem accessor, OSFS when nil
	Logger         *zap.Logger // Built from LogLevel when nil
	LogLevel       LogLevel
	MaxConcurrency int        // Cap on in-flight accessor calls, 0 for none
	Progress       ProgressFn // Optional progress callback
}

// Walker runs recursive concurrent walks. It is safe for concurrent use.
type Walker struct {
	fs       FS
	logger   *zap.Logger
	progress ProgressFn

	mu   sync.Mutex
	last Stats
}

// New creates a Walker from opts.
func New(opts Options) *Walker {
	fs := opts.FS
	if fs == nil {
		fs = NewOSFS()
	}
	if opts.MaxConcurrency > 0 {
		fs = NewLimitFS(fs, opts.MaxConcurrency)
	}
	logger := opts.Logger
	if logger == nil {
		logger = createLogger(opts.LogLevel)
	}
	return &Walker{fs: fs, logger: logger, progress: opts.Progress}
}

// Stats returns the statistics of the most recently finished walk.
func (w *Walker) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.last
}

// All lists every regular file below root.
func (w *Walker) All(ctx context.Context, root string) ([]string, error) {
	return w.Where(ctx, root, nil, nil)
}

// Where lists the regular files below root for which filePred holds, never
// descending into directories for which dirPred is false. A nil predicate
// accepts everything.
//
// Cancelling ctx stops new work from being started; the walk then fails
// with ctx.Err() once the work already in flight has settled.
func (w *Walker) Where(ctx context.Context, root string, dirPred DirPredicate, filePred FilePredicate) ([]string, error) {
	r := &run{
		fs:     w.fs,
		logger: w.logger,
		stats:  &Stats{},
		dir:    dirPred,
		file:   filePred,
	}

	start := time.Now()
	w.logger.Debug("starting walk", zap.String("root", root))
	stop := w.startProgress(r.stats, start)

	files, err := r.walkDir(ctx, root)

	stop()
	final := r.stats.snapshot(start)
	w.mu.Lock()
	w.last = final
	w.mu.Unlock()
	if w.progress != nil {
		w.progress(final)
	}

	if err != nil {
		w.logger.Warn("walk failed", zap.String("root", root), zap.Error(err))
		return nil, err
	}
	w.logger.Debug("walk finished",
		zap.String("root", root),
		zap.Int("files", len(files)),
		zap.Int64("dirs", final.DirsListed),
		zap.Duration("elapsed", final.ElapsedTime),
	)
	return files, nil
}

// WalkAll is the callback form of All. onDone is called exactly once,
// before WalkAll returns.
func (w *Walker) WalkAll(root string, onDone DoneFunc) {
	files, err := w.All(context.Background(), root)
	onDone(err, files)
}

// WalkWhere is the callback form of Where. onDone is called exactly once,
// before WalkWhere returns.
func (w *Walker) WalkWhere(root string, dirPred DirPredicate, filePred FilePredicate, onDone DoneFunc) {
	files, err := w.Where(context.Background(), root, dirPred, filePred)
	onDone(err, files)
}

// startProgress ticks the progress callback until the returned func is called.
func (w *Walker) startProgress(stats *Stats, start time.Time) func() {
	if w.progress == nil {
		return func() {}
	}
	doneCh := make(chan struct{})
	var tickerWg sync.WaitGroup
	tickerWg.Add(1)
	go func() {
		defer tickerWg.Done()
		ticker := time.NewTicker(DefaultProgressInterval)
		defer ticker.Stop()
		for {
			select {
			case <-doneCh:
				return
			case <-ticker.C:
				w.progress(stats.snapshot(start))
			}
		}
	}()
	return func() {
		close(doneCh)
		tickerWg.Wait()
	}
}

// run carries the immutable inputs of one top-level walk. All per-directory
// state lives on the stack of walkDir.
type run struct {
	fs     FS
	logger *zap.Logger
	stats  *Stats
	dir    DirPredicate
	file   FilePredicate
}

// walkDir lists dir and joins one concurrent unit per entry.
func (r *run) walkDir(ctx context.Context, dir string) ([]string, error) {
	names, err := r.fs.ReadDirNames(dir)
	if err != nil {
		atomic.AddInt64(&r.stats.ErrorCount, 1)
		return nil, &ListingError{Path: dir, Err: err}
	}
	atomic.AddInt64(&r.stats.DirsListed, 1)
	r.logger.Debug("listed directory", zap.String("dir", dir), zap.Int("entries", len(names)))

	// Set by the first unit that fails; no new units start after that.
	var failed atomic.Bool
	var stopped error

	p := pool.NewWithResults[[]string]().WithErrors().WithFirstError()
	for _, name := range names {
		if failed.Load() {
			break
		}
		if err := ctx.Err(); err != nil {
			stopped = err
			break
		}
		path := r.fs.Join(dir, name)
		p.Go(func() ([]string, error) {
			files, err := r.visit(ctx, path)
			if err != nil {
				failed.Store(true)
			}
			return files, err
		})
	}

	lists, err := p.Wait()
	if err != nil {
		return nil, err
	}
	if stopped != nil {
		return nil, stopped
	}

	n := 0
	for _, l := range lists {
		n += len(l)
	}
	files := make([]string, 0, n)
	for _, l := range lists {
		files = append(files, l...)
	}
	return files, nil
}

// visit inspects one entry and either includes it, recurses into it or skips it.
func (r *run) visit(ctx context.Context, path string) ([]string, error) {
	kind, err := r.fs.Inspect(path)
	if err != nil {
		atomic.AddInt64(&r.stats.ErrorCount, 1)
		return nil, &InspectionError{Path: path, Err: err}
	}

	switch kind {
	case KindFile:
		ok, err := r.check(r.file, path)
		if err != nil || !ok {
			return nil, err
		}
		atomic.AddInt64(&r.stats.FilesFound, 1)
		return []string{path}, nil

	case KindDirectory:
		ok, err := r.check(r.dir, path)
		if err != nil {
			return nil, err
		}
		if !ok {
			atomic.AddInt64(&r.stats.DirsPruned, 1)
			r.logger.Debug("pruned directory", zap.String("dir", path))
			return nil, nil
		}
		return r.walkDir(ctx, path)

	default:
		atomic.AddInt64(&r.stats.EntriesSkipped, 1)
		return nil, nil
	}
}

// check evaluates pred on path, turning a panic into a PredicateError.
func (r *run) check(pred func(string) bool, path string) (bool, error) {
	if pred == nil {
		return true, nil
	}
	var ok bool
	var pc panics.Catcher
	pc.Try(func() { ok = pred(path) })
	if rec := pc.Recovered(); rec != nil {
		atomic.AddInt64(&r.stats.ErrorCount, 1)
		return false, &PredicateError{Path: path, Value: rec.Value, Stack: rec.Stack}
	}
	return ok, nil
}

// createLogger creates a zap logger with the specified log level.
func createLogger(level LogLevel) *zap.Logger {
	var config zap.Config

	switch level {
	case LogLevelError:
		config = zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	case LogLevelWarn:
		config = zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case LogLevelInfo:
		config = zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case LogLevelDebug:
		config = zap.NewDevelopmentConfig()
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	default:
		config = zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	logger, err := config.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
