package memory

import "github.com/watchman-lab/argus/pkg/domain/interfaces"

// ErrNotFound aliases the shared sentinel so callers can test against
// either the backend or the interface package
var ErrNotFound = interfaces.ErrNotFound
