package domain

import "errors"

// Domain errors for missing required inputs. File and format failures
// carry richer context and are raised through the application error
// taxonomy instead.
var (
	ErrEmptyTarget = errors.New("target text is required")
	ErrEmptyQuery  = errors.New("search text is required")
)
