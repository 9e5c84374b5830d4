package walk

import "context"

// Result is the single value delivered by Go.
type Result struct {
	Files []string
	Err   error
}

// WalkAll lists every regular file below dir on the local filesystem and
// hands the outcome to onDone. onDone is called exactly once, before WalkAll
// returns, with either an error or the complete unordered list.
func WalkAll(dir string, onDone DoneFunc) {
	New(Options{}).WalkAll(dir, onDone)
}

// WalkWhere is WalkAll restricted by predicates: directories failing dirPred
// are neither listed nor reported, files failing filePred are left out.
func WalkWhere(dir string, dirPred DirPredicate, filePred FilePredicate, onDone DoneFunc) {
	New(Options{}).WalkWhere(dir, dirPred, filePred, onDone)
}

// All lists every regular file below dir on the local filesystem.
func All(ctx context.Context, dir string) ([]string, error) {
	return New(Options{}).All(ctx, dir)
}

// Where lists the files below dir accepted by the predicates.
func Where(ctx context.Context, dir string, dirPred DirPredicate, filePred FilePredicate) ([]string, error) {
	return New(Options{}).Where(ctx, dir, dirPred, filePred)
}

// Go starts Where on the local filesystem in the background.
func Go(ctx context.Context, dir string, dirPred DirPredicate, filePred FilePredicate) <-chan Result {
	return New(Options{}).Go(ctx, dir, dirPred, filePred)
}

// Go starts w.Where in the background. The returned channel yields exactly
// one Result and is then closed.
func (w *Walker) Go(ctx context.Context, dir string, dirPred DirPredicate, filePred FilePredicate) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		defer close(out)
		files, err := w.Where(ctx, dir, dirPred, filePred)
		out <- Result{Files: files, Err: err}
	}()
	return out
}
