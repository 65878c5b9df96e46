// Package domain defines the core types for wbedit.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - EntityDocument: a Wikibase entity as returned by the edit action
//   - EntitySelector and EditOptions: the inputs of an edit
//   - EditResult: the explicit outcome of an edit
//   - APIError: a classified MediaWiki API error
//   - RecentChange and EditRecord: feed entries and journal entries
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
