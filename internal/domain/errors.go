package domain

import "errors"

var (
	// ErrNoAddress is returned when a flow is started without a mint or
	// holder address.
	ErrNoAddress = errors.New("no address provided")

	// ErrNoSupply is returned when a mint resolves to zero total supply;
	// percentage math is undefined and the analysis fails rather than
	// reporting silent zeros.
	ErrNoSupply = errors.New("token has no total supply")

	// ErrUnavailable marks an optional source that produced no data.
	ErrUnavailable = errors.New("source unavailable")
)
