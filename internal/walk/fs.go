package walk

import (
	"context"
	"os"
	"path/filepath"

	"github.com/karrick/godirwalk"
	"github.com/spf13/afero"
	"golang.org/x/sync/semaphore"
)

// Kind is the type of a directory entry as reported by an FS.
type Kind int

const (
	KindOther     Kind = iota // Anything that is neither a regular file nor a directory
	KindFile                  // Regular file
	KindDirectory             // Directory
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDirectory:
		return "directory"
	default:
		return "other"
	}
}

// FS is the filesystem accessor the walker is built on.
// Implementations must be safe for concurrent use.
type FS interface {
	// ReadDirNames returns the names of the immediate entries of dir.
	ReadDirNames(dir string) ([]string, error)
	// Inspect reports the kind of the entry at path.
	Inspect(path string) (Kind, error)
	// Join joins a parent path and an entry name.
	Join(base, name string) string
}

// kindOf maps a file mode onto a Kind.
func kindOf(mode os.FileMode) Kind {
	switch {
	case mode.IsRegular():
		return KindFile
	case mode.IsDir():
		return KindDirectory
	default:
		return KindOther
	}
}

// OSFS reads the local filesystem. Listing goes through godirwalk, which
// avoids the per-entry lstat that os.ReadDir performs on some platforms.
// Inspect follows symbolic links.
type OSFS struct{}

// NewOSFS returns an accessor for the local filesystem.
func NewOSFS() *OSFS {
	return &OSFS{}
}

func (*OSFS) ReadDirNames(dir string) ([]string, error) {
	return godirwalk.ReadDirnames(dir, nil)
}

func (*OSFS) Inspect(path string) (Kind, error) {
	info, err := os.Stat(path)
	if err != nil {
		return KindOther, err
	}
	return kindOf(info.Mode()), nil
}

func (*OSFS) Join(base, name string) string {
	return filepath.Join(base, name)
}

// AferoFS adapts any afero.Fs, e.g. afero.NewMemMapFs for in-memory trees.
type AferoFS struct {
	fs afero.Fs
}

// NewAferoFS wraps fs.
func NewAferoFS(fs afero.Fs) *AferoFS {
	return &AferoFS{fs: fs}
}

func (a *AferoFS) ReadDirNames(dir string) ([]string, error) {
	f, err := a.fs.Open(dir)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return f.Readdirnames(-1)
}

func (a *AferoFS) Inspect(path string) (Kind, error) {
	info, err := a.fs.Stat(path)
	if err != nil {
		return KindOther, err
	}
	return kindOf(info.Mode()), nil
}

func (*AferoFS) Join(base, name string) string {
	return filepath.Join(base, name)
}

// LimitFS caps the number of accessor calls in flight at once. The cap sits
// on the accessor rather than on the walk so nested directory joins never
// hold a slot while waiting for their children.
type LimitFS struct {
	next FS
	sem  *semaphore.Weighted
}

// NewLimitFS wraps next so that at most n listing or inspection calls run
// concurrently. n must be positive.
func NewLimitFS(next FS, n int) *LimitFS {
	return &LimitFS{next: next, sem: semaphore.NewWeighted(int64(n))}
}

func (l *LimitFS) ReadDirNames(dir string) ([]string, error) {
	// Acquire only fails on a done context.
	_ = l.sem.Acquire(context.Background(), 1)
	defer l.sem.Release(1)
	return l.next.ReadDirNames(dir)
}

func (l *LimitFS) Inspect(path string) (Kind, error) {
	_ = l.sem.Acquire(context.Background(), 1)
	defer l.sem.Release(1)
	return l.next.Inspect(path)
}

func (l *LimitFS) Join(base, name string) string {
	return l.next.Join(base, name)
}
