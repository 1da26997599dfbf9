package common

const (
	// AuthorizationHeaderName carries the bearer session token.
	AuthorizationHeaderName = "Authorization"

	// BearerPrefix precedes the token in the Authorization header.
	BearerPrefix = "Bearer "

	// RequestIDHeaderName correlates client log lines with server ones.
	RequestIDHeaderName = "X-Request-ID"

	// APIBasePath is the fixed prefix of every remote endpoint.
	APIBasePath = "/api/v1"
)
