package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/custodia-labs/wbedit/internal/core/domain"
	"github.com/custodia-labs/wbedit/internal/core/ports/driven"
)

// entityFields are the response fields that may hold the edited entity,
// in probe order. The service has used all three names over time.
var entityFields = []string{"item", "property", "entity"}

// readResponse decodes a response body, closes it, and runs the
// connection's error and warning checks.
func readResponse(conn driven.APIConnection, body io.ReadCloser) (domain.APIResponse, error) {
	defer body.Close()

	var root domain.APIResponse
	if err := json.NewDecoder(body).Decode(&root); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if err := conn.CheckErrors(root); err != nil {
		return nil, err
	}
	conn.LogWarnings(root)

	return root, nil
}

// locateEntity returns the entity sub-tree of an edit response and the
// field it was found under. The first non-null field wins.
func locateEntity(root domain.APIResponse) (json.RawMessage, string, bool) {
	for _, field := range entityFields {
		raw, ok := root[field]
		if !ok || isJSONNull(raw) {
			continue
		}
		return raw, field, true
	}
	return nil, "", false
}

func isJSONNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
