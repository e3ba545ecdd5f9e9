package api

import (
	"errors"
	"fmt"

	"github.com/LawrenceCirillo/Alan/pkg/util"
)

type (
	// StepID uniquely identifies a step within a blueprint
	StepID string

	// WorkflowID uniquely identifies a generated blueprint
	WorkflowID string

	// NodeType positions a node within the rendered chain
	NodeType string

	// Params holds the free-form configuration of a workflow step
	Params map[string]any

	// WorkflowStep is a single action of a linear workflow. Steps form a
	// singly linked chain through NextStepID
	WorkflowStep struct {
		ID          StepID  `json:"id"`
		Name        string  `json:"name"`
		Description string  `json:"description"`
		ActionType  string  `json:"action_type"`
		Tool        string  `json:"tool"`
		Parameters  Params  `json:"parameters"`
		NextStepID  *StepID `json:"next_step_id"`
	}

	// Position is the canvas location of a node
	Position struct {
		X int `json:"x"`
		Y int `json:"y"`
	}

	// NodeData is the display payload of a node
	NodeData struct {
		Label       string `json:"label"`
		Description string `json:"description"`
		Tool        string `json:"tool"`
		ActionType  string `json:"action_type"`
	}

	// Node is the visual projection of a step
	Node struct {
		ID       StepID   `json:"id"`
		Type     NodeType `json:"type"`
		Position Position `json:"position"`
		Data     NodeData `json:"data"`
	}

	// Edge is the visual projection of a step's successor link
	Edge struct {
		ID     string `json:"id"`
		Source StepID `json:"source"`
		Target StepID `json:"target"`
		Type   string `json:"type"`
	}

	// WorkflowBlueprint is a synthesized workflow. Nodes and Edges are a
	// deterministic projection of Steps
	WorkflowBlueprint struct {
		WorkflowID WorkflowID     `json:"workflow_id"`
		Goal       string         `json:"goal"`
		Nodes      []Node         `json:"nodes"`
		Edges      []Edge         `json:"edges"`
		Steps      []WorkflowStep `json:"steps"`
	}
)

const (
	NodeInput   NodeType = "input"
	NodeDefault NodeType = "default"
	NodeOutput  NodeType = "output"

	EdgeSmoothStep = "smoothstep"
)

var (
	ErrWorkflowIDRequired = errors.New("workflow ID is required")
	ErrNoSteps            = errors.New("workflow has no steps")
	ErrStepIDRequired     = errors.New("step ID is required")
	ErrDuplicateStep      = errors.New("duplicate step ID")
	ErrDanglingLink       = errors.New("step links to unknown step")
	ErrNodeCount          = errors.New("node count does not match steps")
	ErrEdgeCount          = errors.New("edge count does not match links")
	ErrEdgeMismatch       = errors.New("edge does not match a step link")
)

// Validate checks that the blueprint's steps form a well-linked chain and
// that its nodes and edges are consistent with them
func (b *WorkflowBlueprint) Validate() error {
	if b.WorkflowID == "" {
		return ErrWorkflowIDRequired
	}
	if len(b.Steps) == 0 {
		return ErrNoSteps
	}

	ids := make(util.Set[StepID], len(b.Steps))
	for _, s := range b.Steps {
		if s.ID == "" {
			return ErrStepIDRequired
		}
		if ids.Contains(s.ID) {
			return fmt.Errorf("%w: %s", ErrDuplicateStep, s.ID)
		}
		ids.Add(s.ID)
	}

	next := map[StepID]StepID{}
	for _, s := range b.Steps {
		if s.NextStepID == nil {
			continue
		}
		if !ids.Contains(*s.NextStepID) {
			return fmt.Errorf("%w: %s -> %s",
				ErrDanglingLink, s.ID, *s.NextStepID)
		}
		next[s.ID] = *s.NextStepID
	}

	if len(b.Nodes) != len(b.Steps) {
		return fmt.Errorf("%w: %d nodes, %d steps",
			ErrNodeCount, len(b.Nodes), len(b.Steps))
	}
	if links := b.LinkCount(); len(b.Edges) != links {
		return fmt.Errorf("%w: %d edges, %d links",
			ErrEdgeCount, len(b.Edges), links)
	}
	for _, e := range b.Edges {
		if target, ok := next[e.Source]; !ok || target != e.Target {
			return fmt.Errorf("%w: %s", ErrEdgeMismatch, e.ID)
		}
	}
	return nil
}

// Step returns the step with the given ID
func (b *WorkflowBlueprint) Step(id StepID) (*WorkflowStep, bool) {
	for i := range b.Steps {
		if b.Steps[i].ID == id {
			return &b.Steps[i], true
		}
	}
	return nil, false
}

// LinkCount returns the number of steps that have a successor
func (b *WorkflowBlueprint) LinkCount() int {
	res := 0
	for _, s := range b.Steps {
		if s.NextStepID != nil {
			res++
		}
	}
	return res
}
