package walk

import (
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/spf13/afero"
)

// demoTree mirrors the scratch tree of the command-line demo: the first
// element of each row is a directory, the rest are files inside it.
var demoTree = [][]string{
	{"folderA", "a1.keep", "a2", "a3.ignore"},
	{"folderB", "b1.ignore", "b2.keep", "b3"},
	{"folderB/folderBB", "bb1.ignore", "bb2.keep", "bb2"},
	{"folderA/folderAA", "aa1.ignore", "aa2.keep", "aa3"},
	{"folderA/folderAA/folderAAA", "aaa1.keep", "aaa2", "aaa3.ignore"},
}

// makeTree creates demoTree below root on disk and returns every file path.
func makeTree(t testing.TB, root string) []string {
	t.Helper()
	var files []string
	for _, row := range demoTree {
		dir := filepath.Join(root, filepath.FromSlash(row[0]))
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("Failed to create directory: %v", err)
		}
		for _, name := range row[1:] {
			path := filepath.Join(dir, name)
			if err := os.WriteFile(path, nil, 0644); err != nil {
				t.Fatalf("Failed to create file: %v", err)
			}
			files = append(files, path)
		}
	}
	return sorted(files)
}

// makeMemTree creates demoTree below root in an in-memory filesystem.
func makeMemTree(t testing.TB, root string) (afero.Fs, []string) {
	t.Helper()
	mem := afero.NewMemMapFs()
	var files []string
	for _, row := range demoTree {
		dir := filepath.Join(root, filepath.FromSlash(row[0]))
		if err := mem.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("Failed to create directory: %v", err)
		}
		for _, name := range row[1:] {
			path := filepath.Join(dir, name)
			if err := afero.WriteFile(mem, path, nil, 0644); err != nil {
				t.Fatalf("Failed to create file: %v", err)
			}
			files = append(files, path)
		}
	}
	return mem, sorted(files)
}

func sorted(paths []string) []string {
	out := append([]string(nil), paths...)
	sort.Strings(out)
	return out
}

func equalPaths(t *testing.T, got, want []string) {
	t.Helper()
	got, want = sorted(got), sorted(want)
	if len(got) != len(want) {
		t.Fatalf("Expected %d paths, got %d:\n got: %v\nwant: %v", len(want), len(got), got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("Path mismatch at %d:\n got: %v\nwant: %v", i, got, want)
		}
	}
}

// fakeFS is a scripted accessor: directories map to their entry names and
// every other path to a kind. It records the calls made against it.
type fakeFS struct {
	dirs       map[string][]string
	kinds      map[string]Kind
	listErr    map[string]error
	inspectErr map[string]error

	// Optional hooks run before the scripted answer.
	onInspect func(path string)
	onJoin    func(base, name string)

	mu        sync.Mutex
	listed    []string
	inspected []string
}

func newFakeFS() *fakeFS {
	return &fakeFS{
		dirs:       map[string][]string{},
		kinds:      map[string]Kind{},
		listErr:    map[string]error{},
		inspectErr: map[string]error{},
	}
}

// dir registers a directory and its entries. Entries default to files.
func (f *fakeFS) dir(path string, names ...string) {
	f.dirs[path] = names
	f.kinds[path] = KindDirectory
	for _, n := range names {
		p := filepath.Join(path, n)
		if _, ok := f.kinds[p]; !ok {
			f.kinds[p] = KindFile
		}
	}
}

func (f *fakeFS) ReadDirNames(dir string) ([]string, error) {
	f.mu.Lock()
	f.listed = append(f.listed, dir)
	f.mu.Unlock()
	if err := f.listErr[dir]; err != nil {
		return nil, err
	}
	names, ok := f.dirs[dir]
	if !ok {
		return nil, &os.PathError{Op: "open", Path: dir, Err: os.ErrNotExist}
	}
	return names, nil
}

func (f *fakeFS) Inspect(path string) (Kind, error) {
	f.mu.Lock()
	f.inspected = append(f.inspected, path)
	f.mu.Unlock()
	if f.onInspect != nil {
		f.onInspect(path)
	}
	if err := f.inspectErr[path]; err != nil {
		return KindOther, err
	}
	kind, ok := f.kinds[path]
	if !ok {
		return KindOther, &os.PathError{Op: "stat", Path: path, Err: os.ErrNotExist}
	}
	return kind, nil
}

func (f *fakeFS) Join(base, name string) string {
	if f.onJoin != nil {
		f.onJoin(base, name)
	}
	return filepath.Join(base, name)
}

func (f *fakeFS) calls() (listed, inspected []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.listed...), append([]string(nil), f.inspected...)
}
