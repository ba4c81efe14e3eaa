// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "github.com/m-mizutani/goerr/v2"

// Error tags classify failures so handlers can map them to structured
// responses. Every error crossing a component boundary carries one.
var (
	// TagNotFound marks an unknown identifier, an upstream 404, or a
	// missing completed conversion.
	TagNotFound = goerr.NewTag("not_found")

	// TagRemote marks a transport or upstream failure after retries
	// were exhausted.
	TagRemote = goerr.NewTag("remote_error")

	// TagConversion marks a malformed PDF or failed text extraction.
	TagConversion = goerr.NewTag("conversion_error")

	// TagValidation marks malformed request parameters.
	TagValidation = goerr.NewTag("validation_error")
)

// ErrorKind returns the wire-level kind string for an error, derived from
// its tag. Untagged errors report as "internal_error".
func ErrorKind(err error) string {
	switch {
	case goerr.HasTag(err, TagNotFound):
		return "not_found"
	case goerr.HasTag(err, TagRemote):
		return "remote_error"
	case goerr.HasTag(err, TagConversion):
		return "conversion_error"
	case goerr.HasTag(err, TagValidation):
		return "validation_error"
	default:
		return "internal_error"
	}
}
