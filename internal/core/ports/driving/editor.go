package driving

import (
	"context"
	"encoding/json"

	"github.com/custodia-labs/wbedit/internal/core/domain"
)

// EntityEditor writes entity data to a Wikibase site.
type EntityEditor interface {
	// EditEntity creates or modifies the selected entity with the given
	// JSON data. An error is returned for invalid input, transport and API
	// failures. A nil error with a result whose Status is not EditApplied
	// means the edit was accepted but no document could be read back.
	EditEntity(
		ctx context.Context,
		sel domain.EntitySelector,
		data json.RawMessage,
		opts domain.EditOptions,
	) (*domain.EditResult, error)
}

// EditHistory reads the local journal of applied edits.
type EditHistory interface {
	// History returns records newest first, optionally for one entity.
	History(ctx context.Context, entityID string, limit int) ([]domain.EditRecord, error)
}
