package interfaces

import "errors"

// ErrNotFound is returned by repositories when a document does not
// exist. Any other repository error means the store itself is
// unavailable, which is what makes the fallback retry decision in the
// persistence gateway possible.
var ErrNotFound = errors.New("not found")
