package franchise

import "time"

const (
	providerName       = "franchise"
	defaultBaseURL     = "http://localhost:8080/api"
	defaultHTTPTimeout = 30 * time.Second
	maxErrorBody       = 512
)
