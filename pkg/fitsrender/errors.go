package fitsrender

import "errors"

// Sentinel errors returned (wrapped) by the pipeline. Use errors.Is to test.
var (
	ErrUnsupportedFilterArrangement = errors.New("unsupported filter arrangement")
	ErrInvalidFrameShape            = errors.New("invalid frame shape")
	ErrSourceRead                   = errors.New("source read error")
	ErrDestinationWrite             = errors.New("destination write error")

	ErrInvalidParams     = errors.New("invalid pipeline parameters")
	ErrUnsupportedFormat = errors.New("unsupported output format")
)
