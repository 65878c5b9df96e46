package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/wbedit/internal/core/domain"
	"github.com/custodia-labs/wbedit/internal/logger"
)

// Wikibase serialises some empty maps as [] instead of {}
// (https://phabricator.wikimedia.org/T73349). Only these fields are repaired.
var emptyContainerRepair = strings.NewReplacer(
	`"sitelinks":[]`, `"sitelinks":{}`,
	`"labels":[]`, `"labels":{}`,
	`"aliases":[]`, `"aliases":{}`,
	`"claims":[]`, `"claims":{}`,
	`"descriptions":[]`, `"descriptions":{}`,
)

// decodeAttempt is one step of the materialization chain. A step after
// the first only runs when the previous one failed with a type mismatch.
type decodeAttempt struct {
	name    string
	rewrite func(raw []byte) ([]byte, error)
}

var decodeAttempts = []decodeAttempt{
	{name: "direct"},
	{name: "empty container repair", rewrite: repairEmptyContainers},
}

// Materializer turns entity JSON from API responses into documents.
type Materializer struct {
	siteIRI string
}

// NewMaterializer creates a materializer stamping documents with siteIRI.
func NewMaterializer(siteIRI string) *Materializer {
	return &Materializer{siteIRI: siteIRI}
}

// SiteIRI returns the IRI stamped on materialized documents.
func (m *Materializer) SiteIRI() string {
	return m.siteIRI
}

// Materialize decodes raw into a document. The bool result is true when the
// document was only readable after the empty container repair.
func (m *Materializer) Materialize(raw json.RawMessage) (*domain.EntityDocument, bool, error) {
	id := entityIDOf(raw)
	data := []byte(raw)

	var firstErr error
	for i, attempt := range decodeAttempts {
		if attempt.rewrite != nil {
			rewritten, err := attempt.rewrite(data)
			if err != nil {
				logger.Error("Failed to recover parsing of entity %s: %v", id, err)
				return nil, false, fmt.Errorf("decode entity %s: %w", id, firstErr)
			}
			data = rewritten
		}

		doc, err := decodeEntity(data)
		if err == nil {
			doc.SiteIRI = m.siteIRI
			return doc, i > 0, nil
		}

		if firstErr == nil {
			firstErr = err
		}

		if i > 0 {
			logger.Error("Failed to recover parsing of entity %s: %v (original error: %v)\nModified JSON data was: %s",
				id, err, firstErr, data)
			return nil, false, fmt.Errorf("decode entity %s after %s: %w", id, attempt.name, err)
		}
		if !isTypeMismatch(err) {
			logger.Error("Error when reading JSON for entity %s: %v", id, err)
			return nil, false, fmt.Errorf("decode entity %s: %w", id, err)
		}

		logger.Warn("Error when reading JSON for entity %s: %v; trying to repair empty containers (T73349)", id, err)
	}

	return nil, false, fmt.Errorf("decode entity %s: %w", id, firstErr)
}

func decodeEntity(data []byte) (*domain.EntityDocument, error) {
	var doc domain.EntityDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	doc.EnsureContainers()
	return &doc, nil
}

// repairEmptyContainers compacts the JSON so that field names and values
// are adjacent, then rewrites the known empty arrays as empty objects.
func repairEmptyContainers(raw []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return nil, err
	}
	return []byte(emptyContainerRepair.Replace(buf.String())), nil
}

func isTypeMismatch(err error) bool {
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &typeErr)
}

// entityIDOf extracts the id of an entity for log messages.
func entityIDOf(raw json.RawMessage) string {
	var head struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(raw, &head); err != nil || head.ID == "" {
		return "UNKNOWN"
	}
	return head.ID
}
