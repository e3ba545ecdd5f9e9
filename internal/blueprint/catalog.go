package blueprint

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/LawrenceCirillo/Alan/pkg/api"
	"github.com/LawrenceCirillo/Alan/pkg/util"
)

type (
	// Synthesizer derives a workflow blueprint from a goal
	Synthesizer interface {
		Synthesize(ctx context.Context, goal string) (*api.WorkflowBlueprint, error)
	}

	// IDFunc generates workflow identifiers
	IDFunc func() api.WorkflowID

	// StepTemplate describes a step before it is linked into a chain
	StepTemplate struct {
		Name        string
		Description string
		ActionType  string
		Tool        string
		Parameters  api.Params
	}

	// Pattern maps goals matching a keyword rule to a step chain. Match and
	// Tail.Match receive the lowercased goal
	Pattern struct {
		Name  string
		Match func(goal string) bool
		Steps []StepTemplate
		Tail  *Tail
	}

	// Tail is an optional final step appended when its rule also matches
	Tail struct {
		Match func(goal string) bool
		Step  StepTemplate
	}

	// Catalog synthesizes blueprints offline by matching the goal against
	// an ordered list of patterns, falling back to a generic chain
	Catalog struct {
		patterns []Pattern
		fallback []StepTemplate
		layout   Layout
		newID    IDFunc
	}
)

var _ Synthesizer = (*Catalog)(nil)

// NewCatalog creates a catalog. The first matching pattern wins; goals
// matching none receive the generic chain, so no goal yields zero steps
func NewCatalog(patterns []Pattern, l Layout, newID IDFunc) *Catalog {
	return &Catalog{
		patterns: patterns,
		fallback: GenericSteps,
		layout:   l,
		newID:    newID,
	}
}

// NewChatCatalog creates the catalog used by the chat stream
func NewChatCatalog() *Catalog {
	return NewCatalog(ChatPatterns, ChatLayout, NewChatWorkflowID)
}

// NewPlannerCatalog creates the extended catalog of the generation service
func NewPlannerCatalog() *Catalog {
	return NewCatalog(PlannerPatterns, PlannerLayout, NewUUIDWorkflowID)
}

func (c *Catalog) Synthesize(
	_ context.Context, goal string,
) (*api.WorkflowBlueprint, error) {
	return Project(c.newID(), goal, Chain(c.Templates(goal)), c.layout), nil
}

// Templates returns the step templates the catalog selects for goal
func (c *Catalog) Templates(goal string) []StepTemplate {
	lower := strings.ToLower(goal)
	for _, p := range c.patterns {
		if !p.Match(lower) {
			continue
		}
		res := append([]StepTemplate{}, p.Steps...)
		if p.Tail != nil && p.Tail.Match(lower) {
			res = append(res, p.Tail.Step)
		}
		return res
	}
	return c.fallback
}

// NewChatWorkflowID returns a time-derived identifier with a random suffix
func NewChatWorkflowID() api.WorkflowID {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return api.WorkflowID(
		fmt.Sprintf("workflow-%d-%s", time.Now().UnixMilli(), suffix),
	)
}

// NewUUIDWorkflowID returns a random UUID identifier
func NewUUIDWorkflowID() api.WorkflowID {
	return api.WorkflowID(uuid.NewString())
}

// Keywords matches goals containing any of the given keywords
func Keywords(kw ...string) func(string) bool {
	return func(goal string) bool {
		return util.ContainsAny(goal, kw...)
	}
}

// All matches goals satisfying every rule
func All(rules ...func(string) bool) func(string) bool {
	return func(goal string) bool {
		for _, r := range rules {
			if !r(goal) {
				return false
			}
		}
		return true
	}
}
