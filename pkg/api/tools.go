package api

import (
	"encoding/json"
	"errors"
	"fmt"
)

type (
	// ToolName identifies an assistant-invocable tool on the wire
	ToolName string

	// ToolInvocation is a structured request emitted by the assistant and
	// passed through to the presentation layer. The set of implementations
	// is closed: AskForAPIKey, AskForSelection and RenderBlueprint
	ToolInvocation interface {
		ToolName() ToolName
		Args() any
		toolInvocation()
	}

	// AskForAPIKey asks the user for a credential for a service
	AskForAPIKey struct {
		Service string `json:"service"`
	}

	// AskForSelection asks the user to pick one of several options
	AskForSelection struct {
		Title   string   `json:"title"`
		Options []string `json:"options"`
	}

	// RenderBlueprint hands a synthesized workflow to the renderer
	RenderBlueprint struct {
		Blueprint *WorkflowBlueprint
	}

	// ToolSpec describes a tool to an external model
	ToolSpec struct {
		Name        ToolName
		Description string
		Parameters  map[string]any
	}
)

const (
	ToolAskForAPIKey    ToolName = "askForApiKey"
	ToolAskForSelection ToolName = "askForSelection"
	ToolRenderBlueprint ToolName = "renderWorkflowBlueprint"
)

var (
	ErrUnknownTool           = errors.New("unknown tool")
	ErrUnknownToolInvocation = errors.New("unknown tool invocation")
	ErrInvalidToolArgs       = errors.New("invalid tool arguments")
)

var (
	_ ToolInvocation = AskForAPIKey{}
	_ ToolInvocation = AskForSelection{}
	_ ToolInvocation = RenderBlueprint{}
)

func (AskForAPIKey) ToolName() ToolName    { return ToolAskForAPIKey }
func (AskForSelection) ToolName() ToolName { return ToolAskForSelection }
func (RenderBlueprint) ToolName() ToolName { return ToolRenderBlueprint }

func (t AskForAPIKey) Args() any    { return t }
func (t AskForSelection) Args() any { return t }
func (t RenderBlueprint) Args() any { return t.Blueprint }

func (AskForAPIKey) toolInvocation()    {}
func (AskForSelection) toolInvocation() {}
func (RenderBlueprint) toolInvocation() {}

// ParseToolInvocation decodes the JSON arguments of a named tool call into
// its typed invocation
func ParseToolInvocation(name ToolName, args []byte) (ToolInvocation, error) {
	switch name {
	case ToolAskForAPIKey:
		var res AskForAPIKey
		if err := json.Unmarshal(args, &res); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidToolArgs, err)
		}
		if res.Service == "" {
			return nil, fmt.Errorf("%w: service is required",
				ErrInvalidToolArgs)
		}
		return res, nil
	case ToolAskForSelection:
		var res AskForSelection
		if err := json.Unmarshal(args, &res); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidToolArgs, err)
		}
		if res.Title == "" || len(res.Options) == 0 {
			return nil, fmt.Errorf("%w: title and options are required",
				ErrInvalidToolArgs)
		}
		return res, nil
	case ToolRenderBlueprint:
		var bp WorkflowBlueprint
		if err := json.Unmarshal(args, &bp); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidToolArgs, err)
		}
		return RenderBlueprint{Blueprint: &bp}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
}

// ToolSpecs lists every tool the assistant may invoke
var ToolSpecs = []ToolSpec{
	{
		Name:        ToolAskForAPIKey,
		Description: "Ask the user for an API key for a specific service.",
		Parameters: object(map[string]any{
			"service": str(
				`The name of the service, e.g., "Mailchimp" or "Airtable"`,
			),
		}, "service"),
	},
	{
		Name:        ToolAskForSelection,
		Description: "Ask the user to select one option from a list.",
		Parameters: object(map[string]any{
			"title": str(
				`The question to ask, e.g., "Which list to add them to?"`,
			),
			"options": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "The list of options to present.",
			},
		}, "title", "options"),
	},
	{
		Name: ToolRenderBlueprint,
		Description: "Render a workflow blueprint visualization when a " +
			"workflow has been generated. Use this after completing " +
			"workflow generation.",
		Parameters: object(map[string]any{
			"workflow_id": str("Unique identifier for the workflow"),
			"goal":        str("The original goal that generated this workflow"),
			"steps": map[string]any{
				"type":        "array",
				"description": "Workflow steps array",
				"items": object(map[string]any{
					"id":           str("Step identifier"),
					"name":         str("Step name"),
					"description":  str("What the step does"),
					"action_type":  str("webhook, api_call, data_transform"),
					"tool":         str("Service used by the step"),
					"parameters":   map[string]any{"type": "object"},
					"next_step_id": str("Identifier of the following step"),
				}, "id", "name", "description", "action_type", "tool"),
			},
		}, "workflow_id", "goal", "steps"),
	},
}

func object(props map[string]any, required ...string) map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": props,
		"required":   required,
	}
}

func str(desc string) map[string]any {
	return map[string]any{"type": "string", "description": desc}
}
