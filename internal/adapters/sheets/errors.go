package sheets

import "errors"

// Sentinel kinds for spreadsheet adapter errors.
var (
	ErrFetch  = errors.New("sheet fetch failed")
	ErrUpdate = errors.New("sheet update failed")
)
