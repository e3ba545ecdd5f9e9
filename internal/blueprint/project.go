package blueprint

import (
	"fmt"
	"maps"

	"github.com/LawrenceCirillo/Alan/pkg/api"
)

// Layout places nodes left to right: x = index*Spacing + Offset, y = Y
type Layout struct {
	Spacing int
	Offset  int
	Y       int
}

var (
	// ChatLayout is the layout of blueprints streamed to the chat client
	ChatLayout = Layout{Spacing: 350, Offset: 100, Y: 250}

	// PlannerLayout is the layout of blueprints served by the generation
	// service
	PlannerLayout = Layout{Spacing: 300, Offset: 100, Y: 150}
)

// Project builds a blueprint from an ordered step chain, deriving nodes
// from step order and edges from successor links
func Project(
	id api.WorkflowID, goal string, steps []api.WorkflowStep, l Layout,
) *api.WorkflowBlueprint {
	res := &api.WorkflowBlueprint{
		WorkflowID: id,
		Goal:       goal,
		Nodes:      make([]api.Node, 0, len(steps)),
		Edges:      []api.Edge{},
		Steps:      make([]api.WorkflowStep, 0, len(steps)),
	}

	for i, s := range steps {
		s = cloneStep(s)
		res.Steps = append(res.Steps, s)
		res.Nodes = append(res.Nodes, api.Node{
			ID:   s.ID,
			Type: nodeType(i, len(steps)),
			Position: api.Position{
				X: i*l.Spacing + l.Offset,
				Y: l.Y,
			},
			Data: api.NodeData{
				Label:       s.Name,
				Description: s.Description,
				Tool:        s.Tool,
				ActionType:  s.ActionType,
			},
		})
		if s.NextStepID != nil {
			res.Edges = append(res.Edges, api.Edge{
				ID:     fmt.Sprintf("edge-%s-%s", s.ID, *s.NextStepID),
				Source: s.ID,
				Target: *s.NextStepID,
				Type:   api.EdgeSmoothStep,
			})
		}
	}
	return res
}

// Reproject rebuilds the nodes and edges of bp from its steps, leaving bp
// untouched. A missing workflow ID is replaced with one from newID
func Reproject(
	bp *api.WorkflowBlueprint, l Layout, newID IDFunc,
) *api.WorkflowBlueprint {
	id := bp.WorkflowID
	if id == "" {
		id = newID()
	}
	return Project(id, bp.Goal, bp.Steps, l)
}

// Chain links templates in order into steps named step-1, step-2, ...
func Chain(templates []StepTemplate) []api.WorkflowStep {
	res := make([]api.WorkflowStep, len(templates))
	for i, t := range templates {
		res[i] = api.WorkflowStep{
			ID:          stepID(i),
			Name:        t.Name,
			Description: t.Description,
			ActionType:  t.ActionType,
			Tool:        t.Tool,
			Parameters:  cloneParams(t.Parameters),
		}
		if i < len(templates)-1 {
			next := stepID(i + 1)
			res[i].NextStepID = &next
		}
	}
	return res
}

// A single step is both first and last; it is rendered as the input
func nodeType(i, count int) api.NodeType {
	switch {
	case i == 0:
		return api.NodeInput
	case i == count-1:
		return api.NodeOutput
	default:
		return api.NodeDefault
	}
}

func stepID(i int) api.StepID {
	return api.StepID(fmt.Sprintf("step-%d", i+1))
}

func cloneStep(s api.WorkflowStep) api.WorkflowStep {
	s.Parameters = cloneParams(s.Parameters)
	if s.NextStepID != nil {
		next := *s.NextStepID
		s.NextStepID = &next
	}
	return s
}

func cloneParams(p api.Params) api.Params {
	if p == nil {
		return api.Params{}
	}
	return maps.Clone(p)
}
