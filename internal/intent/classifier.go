// Package intent decides whether a user message asks for an automation
// workflow or is conversational chat
package intent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/LawrenceCirillo/Alan/internal/genai"
	"github.com/LawrenceCirillo/Alan/pkg/api"
	"github.com/LawrenceCirillo/Alan/pkg/log"
	"github.com/LawrenceCirillo/Alan/pkg/util"
)

// Classifier labels messages as goals or chat. Without a model it is
// purely rule-based
type Classifier struct {
	model   genai.Model
	timeout time.Duration
}

var (
	goalKeywords = []string{
		"when", "if", "trigger", "automate", "workflow", "connect",
		"send", "add", "create", "update", "notify", "sync",
	}

	chatPrefixes = []string{
		"hello", "hi", "hey", "what", "how", "can you", "help",
	}

	fallbackKeywords = []string{
		"when", "if", "trigger", "automate", "workflow",
	}
)

// ErrClassification is reported when the model cannot classify a message
var ErrClassification = errors.New("intent classification failed")

// NewClassifier creates a classifier. A nil model selects offline rules
func NewClassifier(model genai.Model, timeout time.Duration) *Classifier {
	return &Classifier{
		model:   model,
		timeout: timeout,
	}
}

// Offline reports whether the classifier runs without a model
func (c *Classifier) Offline() bool {
	return c.model == nil
}

// Classify returns the intent of message. It never fails: model errors
// degrade to a reduced keyword check
func (c *Classifier) Classify(ctx context.Context, message string) api.Intent {
	if strings.TrimSpace(message) == "" {
		return api.IntentChat
	}
	if c.model == nil {
		return ClassifyRules(message)
	}

	res, err := c.classifyWithModel(ctx, message)
	if err != nil {
		slog.Warn("Intent classification fell back to keywords",
			log.Error(err))
		return ClassifyFallback(message)
	}
	return res
}

func (c *Classifier) classifyWithModel(
	ctx context.Context, message string,
) (api.Intent, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	resp, err := c.model.Generate(ctx,
		genai.Prompt(buildPrompt(message), classifyMaxTokens),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrClassification, err)
	}

	reply := strings.ToLower(strings.TrimSpace(resp.Text))
	if reply == "" {
		return "", fmt.Errorf("%w: empty reply", ErrClassification)
	}
	if reply == string(api.IntentGoal) {
		return api.IntentGoal, nil
	}
	return api.IntentChat, nil
}

// ClassifyRules is the offline rule set: a message is a goal when it
// mentions a goal keyword and does not open like a greeting or question
func ClassifyRules(message string) api.Intent {
	lower := strings.ToLower(message)
	if util.ContainsAny(lower, goalKeywords...) &&
		!util.HasAnyPrefix(lower, chatPrefixes...) {
		return api.IntentGoal
	}
	return api.IntentChat
}

// ClassifyFallback is the reduced keyword check used when the model fails
func ClassifyFallback(message string) api.Intent {
	if util.ContainsAny(strings.ToLower(message), fallbackKeywords...) {
		return api.IntentGoal
	}
	return api.IntentChat
}
