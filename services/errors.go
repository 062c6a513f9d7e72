package services

import "errors"

// Errors shared across services and the HTTP mapping layer.
var (
	ErrDataUnavailable = errors.New("league data has not been loaded yet")

	ErrLeagueNotFound    = errors.New("league not found")
	ErrSubLeagueNotFound = errors.New("sub-league not found")
	ErrMatchNotFound     = errors.New("match not found")

	ErrEmptySearchQuery = errors.New("search query must not be empty")
)
