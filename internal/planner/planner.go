package planner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/LawrenceCirillo/Alan/internal/blueprint"
	"github.com/LawrenceCirillo/Alan/internal/genai"
	"github.com/LawrenceCirillo/Alan/internal/store"
	"github.com/LawrenceCirillo/Alan/pkg/api"
	"github.com/LawrenceCirillo/Alan/pkg/log"
	"github.com/LawrenceCirillo/Alan/pkg/util"
)

// Planner generates and records workflow blueprints for the generation
// service. Without a model it plans from the extended offline catalog
type Planner struct {
	model   genai.Model
	catalog *blueprint.Catalog
	store   store.Store
}

var (
	ErrGoalRequired = errors.New("goal is required")
	ErrNoSteps      = errors.New("model reply contained no usable steps")
)

var quotaMarkers = []string{"quota", "429", "insufficient"}

// New creates a Planner. A nil model selects offline planning
func New(model genai.Model, s store.Store) *Planner {
	return &Planner{
		model:   model,
		catalog: blueprint.NewPlannerCatalog(),
		store:   s,
	}
}

// Offline reports whether the planner runs without a model
func (p *Planner) Offline() bool {
	return p.model == nil
}

// Plan builds a blueprint for the request's goal and stores it
func (p *Planner) Plan(
	ctx context.Context, req api.GenerateRequest,
) (*api.WorkflowBlueprint, error) {
	goal := strings.TrimSpace(req.Goal)
	if goal == "" {
		return nil, ErrGoalRequired
	}

	bp, err := p.plan(ctx, req.Goal)
	if err != nil {
		return nil, err
	}
	if err := p.store.Put(ctx, bp); err != nil {
		return nil, err
	}
	slog.Info("Workflow planned",
		log.WorkflowID(bp.WorkflowID),
		slog.Int("steps", len(bp.Steps)),
		log.Mode(p.Offline()))
	return bp, nil
}

// Get returns a previously planned blueprint
func (p *Planner) Get(
	ctx context.Context, id api.WorkflowID,
) (*api.WorkflowBlueprint, error) {
	return p.store.Get(ctx, id)
}

func (p *Planner) plan(
	ctx context.Context, goal string,
) (*api.WorkflowBlueprint, error) {
	if p.model == nil {
		return p.catalog.Synthesize(ctx, goal)
	}

	resp, err := p.model.Generate(ctx,
		genai.Prompt(buildPrompt(goal), planMaxTokens),
	)
	if err != nil {
		if util.ContainsAny(strings.ToLower(err.Error()), quotaMarkers...) {
			slog.Warn("Model quota exhausted, using catalog",
				log.Error(err))
			return p.catalog.Synthesize(ctx, goal)
		}
		return nil, err
	}

	templates, err := ParseSteps(resp.Text)
	if err != nil {
		slog.Warn("Unusable model plan, using catalog",
			log.Error(err))
		return p.catalog.Synthesize(ctx, goal)
	}

	return blueprint.Project(
		blueprint.NewUUIDWorkflowID(), goal,
		blueprint.Chain(templates), blueprint.PlannerLayout,
	), nil
}

// ParseSteps extracts step templates from a model reply. The reply may
// wrap the JSON object in other text; steps without a name are skipped
func ParseSteps(reply string) ([]blueprint.StepTemplate, error) {
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start < 0 || end < start {
		return nil, ErrNoSteps
	}

	doc := reply[start : end+1]
	if !gjson.Valid(doc) {
		return nil, ErrNoSteps
	}

	var res []blueprint.StepTemplate
	gjson.Get(doc, "steps").ForEach(func(_, s gjson.Result) bool {
		name := strings.TrimSpace(s.Get("name").String())
		if name == "" {
			return true
		}
		res = append(res, blueprint.StepTemplate{
			Name:        name,
			Description: s.Get("description").String(),
			ActionType:  withDefault(s.Get("action_type").String(), "api_call"),
			Tool:        withDefault(s.Get("tool").String(), "integration"),
			Parameters:  parseParams(s.Get("parameters")),
		})
		return true
	})

	if len(res) == 0 {
		return nil, ErrNoSteps
	}
	return res, nil
}

func parseParams(r gjson.Result) api.Params {
	res := api.Params{}
	if !r.IsObject() {
		return res
	}
	for k, v := range r.Map() {
		res[k] = v.Value()
	}
	return res
}

func withDefault(s, def string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return def
}

// ErrorMessage renders a planning failure for the HTTP API
func ErrorMessage(err error) string {
	return fmt.Sprintf("Error generating workflow: %s", err.Error())
}
