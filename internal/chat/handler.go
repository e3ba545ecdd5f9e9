package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/LawrenceCirillo/Alan/internal/blueprint"
	"github.com/LawrenceCirillo/Alan/internal/config"
	"github.com/LawrenceCirillo/Alan/internal/genai"
	"github.com/LawrenceCirillo/Alan/internal/intent"
	"github.com/LawrenceCirillo/Alan/internal/narrator"
	"github.com/LawrenceCirillo/Alan/pkg/api"
	"github.com/LawrenceCirillo/Alan/pkg/log"
	"github.com/LawrenceCirillo/Alan/pkg/stream"
	"github.com/LawrenceCirillo/Alan/pkg/util"
)

type (
	// Handler turns a conversation into a data stream: an acknowledgement,
	// progress statuses and a workflow blueprint for goals, or a model
	// reply for chat. Every stream it writes ends with a completion frame
	// unless the client has gone away
	Handler struct {
		classifier  *intent.Classifier
		narrator    *narrator.Narrator
		model       genai.Model
		frameDelay  time.Duration
		chatTimeout time.Duration
	}

	// State is a step of request processing
	State string
)

const (
	StateReceived      State = "received"
	StateClassified    State = "classified"
	StateGoalStreaming State = "goal_streaming"
	StateChatStreaming State = "chat_streaming"
	StateErrorFallback State = "error_fallback"
	StateDone          State = "done"
)

// ErrPanic wraps a panic recovered while streaming
var ErrPanic = errors.New("panic while streaming")

// NewHandler creates a Handler. A nil model, or a configuration that
// forces offline mode, selects the offline classifier, catalog and
// confirmation reply; otherwise goals are synthesized by the generation
// service at cfg.BackendURL
func NewHandler(cfg *config.Config, model genai.Model) *Handler {
	if cfg.Offline() {
		model = nil
	}

	var synth blueprint.Synthesizer
	if model == nil {
		synth = blueprint.NewChatCatalog()
	} else {
		synth = blueprint.NewHTTPSynthesizer(
			cfg.BackendURL, cfg.SynthesisTimeout,
		)
	}

	return &Handler{
		classifier:  intent.NewClassifier(model, cfg.ClassifyTimeout),
		narrator:    narrator.New(synth, model == nil, cfg.StatusDelay),
		model:       model,
		frameDelay:  cfg.FrameDelay,
		chatTimeout: cfg.ChatTimeout,
	}
}

// Offline reports whether the handler runs without external services
func (h *Handler) Offline() bool {
	return h.classifier.Offline()
}

// Serve writes the reply to msgs. Failures after the request is received
// are answered with the confirmation reply; a broken writer or a cancelled
// context ends the stream silently
func (h *Handler) Serve(
	ctx context.Context, msgs []api.ChatMessage, w *stream.Writer,
) {
	goal := api.LastUserContent(msgs)
	transition(StateReceived, slog.Int("messages", len(msgs)))

	err := h.process(ctx, msgs, goal, w)
	if err == nil {
		transition(StateDone)
		return
	}

	if w.Broken() || w.Done() || ctx.Err() != nil {
		slog.Debug("Chat stream abandoned",
			log.Error(err))
		return
	}

	slog.Warn("Chat stream failed",
		log.Error(err))
	h.fallback(ctx, msgs, w)
}

func (h *Handler) process(
	ctx context.Context, msgs []api.ChatMessage, goal string,
	w *stream.Writer,
) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()

	in := api.IntentChat
	if strings.TrimSpace(goal) != "" {
		in = h.classifier.Classify(ctx, goal)
	}
	transition(StateClassified, log.Intent(in))

	if in == api.IntentGoal {
		return h.streamGoal(ctx, goal, w)
	}
	return h.streamChat(ctx, msgs, goal, w)
}

func (h *Handler) streamGoal(
	ctx context.Context, goal string, w *stream.Writer,
) error {
	transition(StateGoalStreaming, log.Goal(goal))
	if err := w.Text(Confirmation(goal)); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	for u := range h.narrator.Narrate(ctx, goal) {
		if !u.IsTerminal() {
			if err := w.Text(u.Status); err != nil {
				return err
			}
			if err := util.Sleep(ctx, h.frameDelay); err != nil {
				return err
			}
			continue
		}
		if u.Err != nil {
			return u.Err
		}

		slog.Info("Workflow generated",
			log.WorkflowID(u.Blueprint.WorkflowID),
			slog.Int("steps", len(u.Blueprint.Steps)))
		err := w.ToolCall(stream.NewToolCallID(),
			api.RenderBlueprint{Blueprint: u.Blueprint},
		)
		if err != nil {
			return err
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	return w.Finish()
}

func (h *Handler) streamChat(
	ctx context.Context, msgs []api.ChatMessage, goal string,
	w *stream.Writer,
) error {
	transition(StateChatStreaming, log.Mode(h.Offline()))
	if h.model == nil || strings.TrimSpace(goal) == "" {
		return h.confirm(ctx, goal, w)
	}

	if h.chatTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.chatTimeout)
		defer cancel()
	}

	resp, err := h.model.Stream(ctx, &genai.Request{
		System:   SystemPrompt,
		Messages: msgs,
		Tools:    api.ToolSpecs,
	}, w.Delta)
	if err != nil {
		return err
	}

	for _, tc := range resp.ToolCalls {
		inv, err := api.ParseToolInvocation(tc.Name, []byte(tc.Arguments))
		if err == nil {
			inv, err = prepareInvocation(inv)
		}
		if err != nil {
			slog.Warn("Skipping tool call",
				log.ToolName(tc.Name),
				log.Error(err))
			continue
		}

		id := tc.ID
		if id == "" {
			id = stream.NewToolCallID()
		}
		if err := w.ToolCall(id, inv); err != nil {
			return err
		}
	}
	return w.Finish()
}

func (h *Handler) confirm(
	ctx context.Context, goal string, w *stream.Writer,
) error {
	if err := w.Text(Confirmation(goal)); err != nil {
		return err
	}
	if err := util.Sleep(ctx, h.frameDelay); err != nil {
		return err
	}
	return w.Finish()
}

func (h *Handler) fallback(
	ctx context.Context, msgs []api.ChatMessage, w *stream.Writer,
) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Chat fallback failed",
				log.ErrorString(fmt.Sprint(r)))
		}
	}()

	transition(StateErrorFallback)
	if err := h.confirm(ctx, FallbackGoal(msgs), w); err != nil {
		slog.Debug("Chat fallback abandoned",
			log.Error(err))
	}
}

// prepareInvocation readies a model-issued invocation for the client. A
// blueprint is re-projected from its steps so its nodes and edges are
// consistent with them
func prepareInvocation(inv api.ToolInvocation) (api.ToolInvocation, error) {
	switch inv := inv.(type) {
	case api.AskForAPIKey, api.AskForSelection:
		return inv, nil
	case api.RenderBlueprint:
		bp := blueprint.Reproject(
			inv.Blueprint, blueprint.ChatLayout, blueprint.NewChatWorkflowID,
		)
		if err := bp.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %w", api.ErrInvalidToolArgs, err)
		}
		return api.RenderBlueprint{Blueprint: bp}, nil
	default:
		return nil, fmt.Errorf("%w: %T", api.ErrUnknownToolInvocation, inv)
	}
}

func transition(s State, attrs ...any) {
	slog.Debug("Chat state", append([]any{log.State(s)}, attrs...)...)
}
