// Package api defines the error taxonomy shared by every layer of llm-1min.
//
// All failures that reach a caller are represented as [*Error] values with
// one of the following types:
//   - config_io: the options document could not be written
//   - validation: an option key or value was rejected before persistence
//   - conversation_creation: the provider refused to create a conversation
//   - authentication: the provider rejected the API key (HTTP 401)
//   - rate_limit: the provider throttled the request (HTTP 429)
//   - request_failed: any other non-2xx status or a transport failure
//   - response_parse: the provider body could not be decoded
//
// The original cause is kept in [Error.Cause] and is reachable through
// errors.Is and errors.As. The package has no dependencies beyond the
// standard library and performs no I/O.
package api
