package server

import "time"

const (
	readTimeout  = 10 * time.Second
	writeTimeout = 60 * time.Second
	idleTimeout  = 60 * time.Second
)

// shutdownTimeout and loadTimeout remain vars for tests to override.
var (
	shutdownTimeout = 10 * time.Second
	loadTimeout     = 30 * time.Second
)
