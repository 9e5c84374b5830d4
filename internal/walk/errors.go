package walk

import "fmt"

// ListingError reports a directory whose entries could not be read.
// Its message is the accessor's message, unchanged.
type ListingError struct {
	Path string
	Err  error
}

func (e *ListingError) Error() string { return e.Err.Error() }
func (e *ListingError) Unwrap() error { return e.Err }

// InspectionError reports an entry whose kind could not be determined,
// typically because it vanished between listing and inspection.
type InspectionError struct {
	Path string
	Err  error
}

func (e *InspectionError) Error() string { return e.Err.Error() }
func (e *InspectionError) Unwrap() error { return e.Err }

// PredicateError reports a caller-supplied predicate that panicked.
type PredicateError struct {
	Path  string
	Value any    // Value passed to panic
	Stack []byte // Stack of the panicking goroutine
}

func (e *PredicateError) Error() string {
	return fmt.Sprintf("predicate panicked on %q: %v", e.Path, e.Value)
}

// Unwrap returns the panic value when it was an error.
func (e *PredicateError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
