package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/wbedit/internal/core/domain"
	"github.com/custodia-labs/wbedit/internal/core/ports/driven"
	"github.com/custodia-labs/wbedit/internal/core/ports/driving"
	"github.com/custodia-labs/wbedit/internal/logger"
)

// Ensure EditService implements the interfaces.
var (
	_ driving.EntityEditor = (*EditService)(nil)
	_ driving.EditHistory  = (*EditService)(nil)
)

// API parameter names and fixed values.
const (
	paramAction    = "action"
	paramFormat    = "format"
	paramNew       = "new"
	paramID        = "id"
	paramSite      = "site"
	paramTitle     = "title"
	paramData      = "data"
	paramClear     = "clear"
	paramBot       = "bot"
	paramBaseRevID = "baserevid"
	paramSummary   = "summary"
	paramToken     = "token"

	actionEditEntity = "wbeditentity"
	formatJSON       = "json"
)

// EditService runs the wbeditentity action.
type EditService struct {
	conn         driven.APIConnection
	tokens       *CSRFTokens
	materializer *Materializer
	editLog      driven.EditLogStore // optional
	now          func() time.Time
}

// NewEditService creates an edit service. Documents are stamped with
// siteIRI. editLog may be nil.
func NewEditService(
	conn driven.APIConnection,
	tokens *CSRFTokens,
	siteIRI string,
	editLog driven.EditLogStore,
) *EditService {
	return &EditService{
		conn:         conn,
		tokens:       tokens,
		materializer: NewMaterializer(siteIRI),
		editLog:      editLog,
		now:          time.Now,
	}
}

// EditEntity creates or modifies an entity.
//
// Unless opts.Clear is set, existing data is modified or added to but not
// deleted. Labels, descriptions and aliases are replaced per language;
// statements are added.
func (s *EditService) EditEntity(
	ctx context.Context,
	sel domain.EntitySelector,
	data json.RawMessage,
	opts domain.EditOptions,
) (*domain.EditResult, error) {
	params, err := buildEditParams(sel, data, opts)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("get csrf token: %w", err)
	}
	params[paramToken] = token

	result, err := s.submit(ctx, params)
	if domain.IsTokenError(err) {
		logger.Info("CSRF token rejected for %s, fetching a new token and retrying once", sel)

		token, refreshErr := s.tokens.Refresh(ctx)
		if refreshErr != nil {
			return nil, fmt.Errorf("refresh csrf token: %w", refreshErr)
		}
		params[paramToken] = token

		result, err = s.submit(ctx, params)
	}
	if err != nil {
		return nil, err
	}

	s.record(ctx, opts, result)
	return result, nil
}

// History returns journal records newest first.
func (s *EditService) History(ctx context.Context, entityID string, limit int) ([]domain.EditRecord, error) {
	if s.editLog == nil {
		return nil, errors.New("edit journal not configured")
	}
	return s.editLog.List(ctx, entityID, limit)
}

// buildEditParams validates the input and assembles the request parameters
// without the token.
func buildEditParams(sel domain.EntitySelector, data json.RawMessage, opts domain.EditOptions) (map[string]string, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: data cannot be empty when editing entity data", domain.ErrInvalidInput)
	}
	if err := sel.Validate(); err != nil {
		return nil, err
	}

	params := map[string]string{
		paramAction: actionEditEntity,
		paramData:   string(data),
		paramFormat: formatJSON,
	}

	switch {
	case sel.NewType != "":
		params[paramNew] = sel.NewType
	case sel.ID != "":
		params[paramID] = sel.ID
	default:
		params[paramSite] = sel.Site
		params[paramTitle] = sel.Title
	}

	// Flags are sent without a value; their presence switches them on.
	if opts.Bot {
		params[paramBot] = ""
	}
	if opts.Clear {
		params[paramClear] = ""
	}
	if opts.BaseRevID != 0 {
		params[paramBaseRevID] = strconv.FormatInt(opts.BaseRevID, 10)
	}
	if opts.Summary != "" {
		params[paramSummary] = opts.Summary
	}

	return params, nil
}

// submit sends one wbeditentity request and reads the result.
func (s *EditService) submit(ctx context.Context, params map[string]string) (*domain.EditResult, error) {
	body, err := s.conn.SendRequest(ctx, http.MethodPost, params)
	if err != nil {
		return nil, fmt.Errorf("send %s request: %w", actionEditEntity, err)
	}

	root, err := readResponse(s.conn, body)
	if err != nil {
		return nil, err
	}

	raw, field, ok := locateEntity(root)
	if !ok {
		logger.Error("No entity document found in API response")
		return &domain.EditResult{Status: domain.EditNoEntity}, nil
	}

	doc, recovered, err := s.materializer.Materialize(raw)
	if err != nil {
		return &domain.EditResult{Status: domain.EditUndecodable, Field: field, DecodeErr: err}, nil
	}

	return &domain.EditResult{
		Status:    domain.EditApplied,
		Document:  doc,
		Field:     field,
		Recovered: recovered,
	}, nil
}

// record appends applied edits to the journal. Failures are logged only.
func (s *EditService) record(ctx context.Context, opts domain.EditOptions, result *domain.EditResult) {
	if s.editLog == nil || !result.OK() {
		return
	}

	rec := domain.EditRecord{
		ID:         uuid.New().String(),
		EntityID:   result.Document.ID,
		EntityType: result.Document.Type,
		RevisionID: result.Document.LastRevID,
		Summary:    opts.Summary,
		Bot:        opts.Bot,
		Recovered:  result.Recovered,
		CreatedAt:  s.now(),
	}
	if err := s.editLog.Append(ctx, rec); err != nil {
		logger.Warn("Failed to record edit of %s: %v", rec.EntityID, err)
	}
}
