package usecase

import "github.com/m-mizutani/goerr/v2"

var (
	ErrUserNotFound    = goerr.New("roblox username not found")
	ErrTrackerNotFound = goerr.New("no tracker for that member")
	ErrGroupNotSet     = goerr.New("no group configured")
)
