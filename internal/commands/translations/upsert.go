package translationscmd

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-localize/internal/commands"
	"github.com/goliatone/go-localize/internal/domain"
	"github.com/goliatone/go-localize/internal/logging"
	"github.com/goliatone/go-localize/internal/translations"
	"github.com/goliatone/go-localize/pkg/interfaces"
	command "github.com/goliatone/go-command"
	"github.com/google/uuid"
)

const upsertDraftMessageType = "localize.translations.draft.upsert"

// UpsertDraftCommand applies a multi-locale draft edit to one string.
type UpsertDraftCommand struct {
	ProjectID         uuid.UUID         `json:"project_id"`
	Key               string            `json:"key"`
	Context           *string           `json:"context,omitempty"`
	Values            map[string]string `json:"values"`
	IfUnmodifiedSince *time.Time        `json:"if_unmodified_since,omitempty"`
	UpdatedByID       uuid.UUID         `json:"updated_by_id"`
	UpdatedByName     string            `json:"updated_by_name"`
}

// Type implements command.Message.
func (UpsertDraftCommand) Type() string { return upsertDraftMessageType }

// Validate ensures the command carries the required inputs.
func (m UpsertDraftCommand) Validate() error {
	errs := validation.Errors{}
	if m.ProjectID == uuid.Nil {
		errs["project_id"] = validation.NewError("localize.translations.draft.upsert.project_id_required", "project_id is required")
	}
	if m.Key == "" {
		errs["key"] = validation.NewError("localize.translations.draft.upsert.key_required", "key is required")
	}
	if len(m.Values) == 0 {
		errs["values"] = validation.NewError("localize.translations.draft.upsert.values_required", "at least one locale value is required")
	}
	if m.UpdatedByID == uuid.Nil {
		errs["updated_by_id"] = validation.NewError("localize.translations.draft.upsert.updated_by_required", "updated_by_id is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UpsertDraftHandler applies draft edits via the translations service.
type UpsertDraftHandler struct {
	service translations.Service
	logger  interfaces.Logger
	timeout time.Duration
}

// UpsertDraftOption customises the handler.
type UpsertDraftOption func(*UpsertDraftHandler)

// UpsertDraftWithTimeout overrides the default execution timeout.
func UpsertDraftWithTimeout(timeout time.Duration) UpsertDraftOption {
	return func(h *UpsertDraftHandler) {
		h.timeout = timeout
	}
}

// NewUpsertDraftHandler constructs a handler wired to the translations service.
func NewUpsertDraftHandler(service translations.Service, logger interfaces.Logger, opts ...UpsertDraftOption) *UpsertDraftHandler {
	handler := &UpsertDraftHandler{
		service: service,
		logger:  commands.EnsureLogger(logger),
		timeout: commands.DefaultCommandTimeout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(handler)
		}
	}
	return handler
}

// Execute satisfies command.Commander[UpsertDraftCommand].
func (h *UpsertDraftHandler) Execute(ctx context.Context, msg UpsertDraftCommand) error {
	if err := commands.WrapValidationError(command.ValidateMessage(msg)); err != nil {
		return err
	}
	ctx = commands.EnsureContext(ctx)
	ctx, cancel := commands.WithCommandTimeout(ctx, h.timeout)
	defer cancel()

	if err := ctx.Err(); err != nil {
		return commands.WrapContextError(err)
	}

	req := translations.UpsertDraftRequest{
		ProjectID:         msg.ProjectID,
		Key:               msg.Key,
		Context:           msg.Context,
		Values:            msg.Values,
		IfUnmodifiedSince: msg.IfUnmodifiedSince,
		UpdatedBy: domain.UserRef{
			ID:   msg.UpdatedByID,
			Name: msg.UpdatedByName,
		},
	}
	if _, err := h.service.UpsertDraft(ctx, req); err != nil {
		return commands.WrapExecuteError(err)
	}

	logging.WithFields(h.logger, map[string]any{
		"operation":  "translations.draft.upsert",
		"project_id": msg.ProjectID,
		"key":        msg.Key,
		"locales":    len(msg.Values),
	}).Info("translations.command.upsert.completed")
	return nil
}
