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

const rotatePublicKeyMessageType = "localize.projects.public_key.rotate"

// RotatePublicKeyCommand issues a new public read key for a project.
type RotatePublicKeyCommand struct {
	ProjectID uuid.UUID `json:"project_id"`
}

// Type implements command.Message.
func (RotatePublicKeyCommand) Type() string { return rotatePublicKeyMessageType }

// Validate ensures the command carries the project identifier.
func (m RotatePublicKeyCommand) Validate() error {
	errs := validation.Errors{}
	if m.ProjectID == uuid.Nil {
		errs["project_id"] = validation.NewError("localize.projects.public_key.rotate.project_id_required", "project_id is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// RotatePublicKeyHandler rotates public keys via the project service.
type RotatePublicKeyHandler struct {
	service projects.Service
	logger  interfaces.Logger
	timeout time.Duration
}

// RotatePublicKeyOption customises the handler.
type RotatePublicKeyOption func(*RotatePublicKeyHandler)

// RotatePublicKeyWithTimeout overrides the default execution timeout.
func RotatePublicKeyWithTimeout(timeout time.Duration) RotatePublicKeyOption {
	return func(h *RotatePublicKeyHandler) {
		h.timeout = timeout
	}
}

// NewRotatePublicKeyHandler constructs a handler wired to the project service.
func NewRotatePublicKeyHandler(service projects.Service, logger interfaces.Logger, opts ...RotatePublicKeyOption) *RotatePublicKeyHandler {
	handler := &RotatePublicKeyHandler{
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

// Execute satisfies command.Commander[RotatePublicKeyCommand].
func (h *RotatePublicKeyHandler) Execute(ctx context.Context, msg RotatePublicKeyCommand) error {
	if err := commands.WrapValidationError(command.ValidateMessage(msg)); err != nil {
		return err
	}
	ctx = commands.EnsureContext(ctx)
	ctx, cancel := commands.WithCommandTimeout(ctx, h.timeout)
	defer cancel()

	if err := ctx.Err(); err != nil {
		return commands.WrapContextError(err)
	}

	if _, err := h.service.RotatePublicKey(ctx, msg.ProjectID); err != nil {
		return commands.WrapExecuteError(err)
	}

	logging.WithFields(h.logger, map[string]any{
		"operation":  "projects.public_key.rotate",
		"project_id": msg.ProjectID,
	}).Info("projects.command.rotate.completed")
	return nil
}
