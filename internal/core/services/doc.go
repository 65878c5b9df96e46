// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The edit path is:
//
//	EditService -> CSRFTokens -> APIConnection -> locateEntity -> Materializer
//
// EditService retries a submission exactly once when the service rejects
// the CSRF token. Responses without a readable entity are reported through
// domain.EditResult rather than as errors.
package services
