package translationscmd

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-localize/internal/commands"
	"github.com/goliatone/go-localize/internal/domain"
	"github.com/goliatone/go-localize/internal/logging"
	"github.com/goliatone/go-localize/internal/publishing"
	"github.com/goliatone/go-localize/pkg/interfaces"
	command "github.com/goliatone/go-command"
	"github.com/google/uuid"
)

const publishMessageType = "localize.translations.publish"

// PublishCommand turns current drafts into immutable snapshots.
type PublishCommand struct {
	ProjectID       uuid.UUID `json:"project_id"`
	Locales         []string  `json:"locales,omitempty"`
	Force           bool      `json:"force"`
	PublishedByID   uuid.UUID `json:"published_by_id"`
	PublishedByName string    `json:"published_by_name"`
}

// Type implements command.Message.
func (PublishCommand) Type() string { return publishMessageType }

// Validate ensures the command carries the required identifiers.
func (m PublishCommand) Validate() error {
	errs := validation.Errors{}
	if m.ProjectID == uuid.Nil {
		errs["project_id"] = validation.NewError("localize.translations.publish.project_id_required", "project_id is required")
	}
	if m.PublishedByID == uuid.Nil {
		errs["published_by_id"] = validation.NewError("localize.translations.publish.published_by_required", "published_by_id is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// PublishHandler runs publishes via the orchestrator.
type PublishHandler struct {
	publisher publishing.Publisher
	logger    interfaces.Logger
	timeout   time.Duration
}

// PublishOption customises the handler.
type PublishOption func(*PublishHandler)

// PublishWithTimeout overrides the default execution timeout.
func PublishWithTimeout(timeout time.Duration) PublishOption {
	return func(h *PublishHandler) {
		h.timeout = timeout
	}
}

// NewPublishHandler constructs a handler wired to the publish orchestrator.
func NewPublishHandler(publisher publishing.Publisher, logger interfaces.Logger, opts ...PublishOption) *PublishHandler {
	handler := &PublishHandler{
		publisher: publisher,
		logger:    commands.EnsureLogger(logger),
		timeout:   commands.DefaultCommandTimeout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(handler)
		}
	}
	return handler
}

// Execute satisfies command.Commander[PublishCommand].
func (h *PublishHandler) Execute(ctx context.Context, msg PublishCommand) error {
	if err := commands.WrapValidationError(command.ValidateMessage(msg)); err != nil {
		return err
	}
	ctx = commands.EnsureContext(ctx)
	ctx, cancel := commands.WithCommandTimeout(ctx, h.timeout)
	defer cancel()

	if err := ctx.Err(); err != nil {
		return commands.WrapContextError(err)
	}

	result, err := h.publisher.Publish(ctx, publishing.PublishRequest{
		ProjectID: msg.ProjectID,
		Locales:   msg.Locales,
		Force:     msg.Force,
		PublishedBy: domain.UserRef{
			ID:   msg.PublishedByID,
			Name: msg.PublishedByName,
		},
	})
	if err != nil {
		return commands.WrapExecuteError(err)
	}

	logging.WithFields(h.logger, map[string]any{
		"operation":  "translations.publish",
		"project_id": msg.ProjectID,
		"locales":    len(result),
		"force":      msg.Force,
	}).Info("translations.command.publish.completed")
	return nil
}
