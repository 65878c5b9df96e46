package domain

import "fmt"

// EntitySelector identifies the entity an edit applies to. Exactly one of
// NewType, ID, or the Site and Title pair must be set.
type EntitySelector struct {
	// NewType creates a new entity of this type ("item", "property").
	NewType string

	// ID selects an existing entity, e.g. "Q42".
	ID string

	// Site and Title select the item linked to a page, e.g. "enwiki".
	Site  string
	Title string
}

// NewEntity selects a new entity of the given type.
func NewEntity(entityType string) EntitySelector {
	return EntitySelector{NewType: entityType}
}

// ByID selects an existing entity by id.
func ByID(id string) EntitySelector {
	return EntitySelector{ID: id}
}

// BySiteTitle selects the entity linked to a page on a site.
func BySiteTitle(site, title string) EntitySelector {
	return EntitySelector{Site: site, Title: title}
}

// Validate checks that exactly one selector variant is present.
func (s EntitySelector) Validate() error {
	switch {
	case s.NewType != "":
		if s.ID != "" || s.Site != "" || s.Title != "" {
			return fmt.Errorf(`%w: cannot use "id", "site", or "title" when creating a new entity`, ErrInvalidInput)
		}
	case s.ID != "":
		if s.Site != "" || s.Title != "" {
			return fmt.Errorf(`%w: cannot use "site" or "title" when selecting an entity by id`, ErrInvalidInput)
		}
	case s.Title != "":
		if s.Site == "" {
			return fmt.Errorf(`%w: "site" is required when selecting an entity by title`, ErrInvalidInput)
		}
	default:
		return fmt.Errorf("%w: must create a new entity, or give an id, or give a site and title", ErrInvalidInput)
	}
	return nil
}

// String describes the selector for logs.
func (s EntitySelector) String() string {
	switch {
	case s.NewType != "":
		return "new " + s.NewType
	case s.ID != "":
		return s.ID
	default:
		return s.Site + ":" + s.Title
	}
}

// EditOptions are the optional parameters of an edit.
type EditOptions struct {
	// Clear deletes existing data of the entity before writing.
	Clear bool

	// Bot flags the edit as a bot edit. Ignored by the service for users
	// without the bot right.
	Bot bool

	// BaseRevID is the revision the edit is based on; 0 disables the
	// edit conflict check.
	BaseRevID int64

	// Summary is the edit comment. The service prepends an automatic
	// comment and truncates the combination.
	Summary string
}

// EditStatus is the outcome of an edit that reached the service without
// an API error.
type EditStatus int

const (
	// EditApplied means the edited entity was decoded into a document.
	EditApplied EditStatus = iota

	// EditNoEntity means the response contained no entity.
	EditNoEntity

	// EditUndecodable means the entity in the response could not be decoded.
	EditUndecodable
)

// String returns the string representation.
func (s EditStatus) String() string {
	switch s {
	case EditApplied:
		return "applied"
	case EditNoEntity:
		return "no-entity"
	case EditUndecodable:
		return "undecodable"
	default:
		return "unknown"
	}
}

// EditResult is the result of a successful edit request.
// Document is only set when Status is EditApplied.
type EditResult struct {
	Status   EditStatus
	Document *EntityDocument

	// Field is the response field the entity was found under.
	Field string

	// Recovered is true when the document needed the empty container repair.
	Recovered bool

	// DecodeErr is the decode failure for EditUndecodable results.
	DecodeErr error
}

// OK reports whether a document is available.
func (r *EditResult) OK() bool {
	return r != nil && r.Status == EditApplied && r.Document != nil
}
