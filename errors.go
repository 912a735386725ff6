package srs

import "errors"

// Sentinel errors for the srs package.
// Use errors.Is to check: errors.Is(err, srs.ErrInvalidCard)
var (
	ErrInvalidRating     = errors.New("srs: invalid rating")
	ErrInvalidCard       = errors.New("srs: invalid card")
	ErrInvalidParameters = errors.New("srs: parameters out of bounds")
	ErrItemIDMismatch    = errors.New("srs: item ID mismatch in review log")
	ErrMigration         = errors.New("srs: invalid legacy record")
)
