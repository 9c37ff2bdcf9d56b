// Package sdk is a Go client for the docrelay HTTP API.
//
// A Client wraps the relay's webhook contract: it submits a search
// request and decodes either the normalized result list or a typed
// error. Error kinds returned by the relay map to exported sentinel
// errors so callers can branch with errors.Is.
package sdk
