package planner_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/LawrenceCirillo/Alan/internal/assert/helpers"
	"github.com/LawrenceCirillo/Alan/internal/planner"
	"github.com/LawrenceCirillo/Alan/internal/store"
	"github.com/LawrenceCirillo/Alan/pkg/api"

	as "github.com/LawrenceCirillo/Alan/internal/assert"
)

const modelPlan = `Here is the plan:
{"steps":[
 {"name":"Trigger: New Row","description":"Watch the sheet","action_type":"webhook","tool":"google_sheets","parameters":{"sheet":"to_be_configured"}},
 {"name":"","description":"skipped"},
 {"name":"Post Message","description":"Post to channel","tool":"slack","parameters":{"channel":"#ops","count":2}}
]}
Thanks!`

func TestPlanOffline(t *testing.T) {
	w := as.New(t)
	ctx := context.Background()
	p := planner.New(nil, store.NewMemoryStore(8))
	w.True(p.Offline())

	bp, err := p.Plan(ctx, api.GenerateRequest{
		Goal: "Update inventory for every order and notify Slack",
	})
	w.Require.NoError(err)
	w.BlueprintValid(bp)
	w.Len(bp.Steps, 3)
	w.Equal("slack", bp.Steps[2].Tool)
	w.Equal(api.Position{X: 700, Y: 150}, bp.Nodes[2].Position)

	got, err := p.Get(ctx, bp.WorkflowID)
	w.NoError(err)
	w.Equal(bp.Steps, got.Steps)

	_, err = p.Get(ctx, "missing")
	w.ErrorIs(err, store.ErrNotFound)
}

func TestPlanGoalRequired(t *testing.T) {
	p := planner.New(nil, store.NewMemoryStore(8))
	_, err := p.Plan(context.Background(), api.GenerateRequest{Goal: "  "})
	assert.ErrorIs(t, err, planner.ErrGoalRequired)
}

func TestPlanConnected(t *testing.T) {
	ctx := context.Background()

	t.Run("model_plan", func(t *testing.T) {
		w := as.New(t)
		model := helpers.NewMockModel()
		model.SetReply(modelPlan)
		s, _ := helpers.NewRedisStore(t)
		p := planner.New(model, s)

		bp, err := p.Plan(ctx, api.GenerateRequest{Goal: "sheet to slack"})
		w.Require.NoError(err)
		w.BlueprintValid(bp)
		w.Len(bp.Steps, 2)
		w.Equal("Post Message", bp.Steps[1].Name)
		w.Equal("api_call", bp.Steps[1].ActionType)
		w.Equal("#ops", bp.Steps[1].Parameters["channel"])

		got, err := p.Get(ctx, bp.WorkflowID)
		w.NoError(err)
		w.Equal("sheet to slack", got.Goal)

		reqs := model.Requests()
		w.Len(reqs, 1)
		w.Contains(reqs[0].Messages[0].Content, "Goal: sheet to slack")
	})

	t.Run("quota_falls_back", func(t *testing.T) {
		model := helpers.NewMockModel()
		model.SetError(errors.New("HTTP 429: insufficient_quota"))
		p := planner.New(model, store.NewMemoryStore(8))

		bp, err := p.Plan(ctx, api.GenerateRequest{Goal: "newsletter"})
		assert.NoError(t, err)
		assert.Equal(t, "website", bp.Steps[0].Tool)
	})

	t.Run("unusable_reply_falls_back", func(t *testing.T) {
		model := helpers.NewMockModel()
		model.SetReply("I cannot help with that")
		p := planner.New(model, store.NewMemoryStore(8))

		bp, err := p.Plan(ctx, api.GenerateRequest{Goal: "something"})
		assert.NoError(t, err)
		assert.Equal(t, "generic", bp.Steps[0].Tool)
	})

	t.Run("other_error", func(t *testing.T) {
		boom := errors.New("connection refused")
		model := helpers.NewMockModel()
		model.SetError(boom)
		p := planner.New(model, store.NewMemoryStore(8))

		_, err := p.Plan(ctx, api.GenerateRequest{Goal: "something"})
		assert.ErrorIs(t, err, boom)
		assert.Equal(t,
			"Error generating workflow: connection refused",
			planner.ErrorMessage(err),
		)
	})
}

func TestParseSteps(t *testing.T) {
	steps, err := planner.ParseSteps(modelPlan)
	assert.NoError(t, err)
	assert.Len(t, steps, 2)
	assert.Equal(t, "google_sheets", steps[0].Tool)
	assert.Equal(t, float64(2), steps[1].Parameters["count"])

	for _, reply := range []string{
		"", "no json here", `{"steps":[]}`, `{"steps": "x"}`, "{broken",
		`} backwards {`,
	} {
		_, err := planner.ParseSteps(reply)
		assert.ErrorIs(t, err, planner.ErrNoSteps, reply)
	}
}
