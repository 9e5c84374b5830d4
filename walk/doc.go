// Package walk lists the files below a directory by exploring every
// subdirectory concurrently.
//
// Each directory is listed once and each of its entries is inspected and, for
// subdirectories, walked in parallel. The results of a directory are joined
// only after all of its entries have settled, so a walk delivers exactly one
// outcome: the full list of files, or the first error observed.
//
// Basic usage:
//
//	walk.WalkAll("./test", func(err error, files []string) {
//		if err != nil {
//			log.Fatal(err)
//		}
//		for _, f := range files {
//			fmt.Println(f)
//		}
//	})
//
// Filtering prunes whole subtrees before they are listed:
//
//	walk.WalkWhere("./test",
//		func(dir string) bool { return !strings.HasSuffix(dir, "folderAA") },
//		func(file string) bool { return strings.HasSuffix(file, ".keep") },
//		onDone)
//
// The blocking forms All and Where accept a context. A Walker created with
// New adds a concurrency cap, progress reporting and Watch:
//
//	w := walk.New(walk.Options{MaxConcurrency: 32})
//	files, err := w.Where(ctx, root, walk.ExcludeDirs(".git"), walk.HasExt("go"))
//
// The order of the returned files is unspecified.
package walk
