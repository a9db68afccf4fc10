package interfaces

import "github.com/m-mizutani/goerr/v2"

// ErrNotFound is wrapped by repository backends when a record is absent
var ErrNotFound = goerr.New("record not found")
