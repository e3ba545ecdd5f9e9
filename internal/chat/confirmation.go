package chat

import (
	"fmt"
	"strings"

	"github.com/LawrenceCirillo/Alan/pkg/api"
)

const (
	confirmationTemplate = "Got it! You want to: %s. " +
		"Let me create that workflow for you..."
	emptyConfirmation = "Got it! Let me create that workflow for you..."

	// DefaultGoal stands in for a goal that cannot be recovered
	DefaultGoal = "your goal"

	whenPrefix    = "when "
	triggerPrefix = "automatically trigger when "
)

// Confirmation acknowledges a goal before its workflow is generated
func Confirmation(goal string) string {
	if goal == "" {
		return emptyConfirmation
	}
	g := strings.ToLower(goal)
	if strings.HasPrefix(g, whenPrefix) {
		g = triggerPrefix + g[len(whenPrefix):]
	}
	return fmt.Sprintf(confirmationTemplate, g)
}

// FallbackGoal recovers the goal of a conversation for the fallback reply
func FallbackGoal(msgs []api.ChatMessage) string {
	if goal := strings.TrimSpace(api.LastUserContent(msgs)); goal != "" {
		return api.LastUserContent(msgs)
	}
	return DefaultGoal
}
