package repositories

import "errors"

// ErrNotFound is returned by every repository when no entity matches the
// requested id (or email). Callers match it with errors.Is.
var ErrNotFound = errors.New("not found")
