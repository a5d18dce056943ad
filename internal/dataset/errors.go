package dataset

import "errors"

// Dataset errors
var (
	ErrMissingColumn = errors.New("missing required column")
	ErrMalformedRow  = errors.New("malformed row")
	ErrNoSeasons     = errors.New("season range is empty")
)
