package eventlog

import "errors"

var (
	// ErrLogDirUnavailable is returned by Discover when the log root cannot be read.
	ErrLogDirUnavailable = errors.New("log directory unavailable")
)
