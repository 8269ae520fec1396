package projectscmd

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-localize/internal/commands"
	"github.com/goliatone/go-localize/internal/logging"
	"github.com/goliatone/go-localize/internal/projects"
	"github.com/goliatone/go-localize/pkg/interfaces"
	command "github.com/goliatone/go-command"
	"github.com/google/uuid"
)

const updateLocalesMessageType = "localize.projects.locales.update"

// UpdateLocalesCommand replaces a project's locale configuration.
type UpdateLocalesCommand struct {
	ProjectID     uuid.UUID `json:"project_id"`
	DefaultLocale string    `json:"default_locale"`
	Locales       []string  `json:"locales"`
}

// Type implements command.Message.
func (UpdateLocalesCommand) Type() string { return updateLocalesMessageType }

// Validate ensures the command carries the required inputs.
func (m UpdateLocalesCommand) Validate() error {
	errs := validation.Errors{}
	if m.ProjectID == uuid.Nil {
		errs["project_id"] = validation.NewError("localize.projects.locales.update.project_id_required", "project_id is required")
	}
	if m.DefaultLocale == "" {
		errs["default_locale"] = validation.NewError("localize.projects.locales.update.default_locale_required", "default_locale is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UpdateLocalesHandler updates locale configuration via the project service.
type UpdateLocalesHandler struct {
	service projects.Service
	logger  interfaces.Logger
	timeout time.Duration
}

// UpdateLocalesOption customises the handler.
type UpdateLocalesOption func(*UpdateLocalesHandler)

// UpdateLocalesWithTimeout overrides the default execution timeout.
func UpdateLocalesWithTimeout(timeout time.Duration) UpdateLocalesOption {
	return func(h *UpdateLocalesHandler) {
		h.timeout = timeout
	}
}

// NewUpdateLocalesHandler constructs a handler wired to the project service.
func NewUpdateLocalesHandler(service projects.Service, logger interfaces.Logger, opts ...UpdateLocalesOption) *UpdateLocalesHandler {
	handler := &UpdateLocalesHandler{
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

// Execute satisfies command.Commander[UpdateLocalesCommand].
func (h *UpdateLocalesHandler) Execute(ctx context.Context, msg UpdateLocalesCommand) error {
	if err := commands.WrapValidationError(command.ValidateMessage(msg)); err != nil {
		return err
	}
	ctx = commands.EnsureContext(ctx)
	ctx, cancel := commands.WithCommandTimeout(ctx, h.timeout)
	defer cancel()

	if err := ctx.Err(); err != nil {
		return commands.WrapContextError(err)
	}

	if _, err := h.service.UpdateLocales(ctx, msg.ProjectID, msg.DefaultLocale, msg.Locales); err != nil {
		return commands.WrapExecuteError(err)
	}

	logging.WithFields(h.logger, map[string]any{
		"operation":      "projects.locales.update",
		"project_id":     msg.ProjectID,
		"default_locale": msg.DefaultLocale,
		"locales":        len(msg.Locales),
	}).Info("projects.command.locales.completed")
	return nil
}
