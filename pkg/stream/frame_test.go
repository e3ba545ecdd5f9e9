package stream_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/LawrenceCirillo/Alan/pkg/api"
	"github.com/LawrenceCirillo/Alan/pkg/stream"
)

func TestTextFrame(t *testing.T) {
	t.Run("plain", func(t *testing.T) {
		assert.Equal(t,
			"0:\"Analyzing your goal...\"\n",
			string(stream.TextFrame("Analyzing your goal...")),
		)
	})

	t.Run("escapes_quotes_and_backslashes", func(t *testing.T) {
		text := `say "hi" to C:\temp`
		frame := stream.TextFrame(text)
		assert.Equal(t, "0:\"say \\\"hi\\\" to C:\\\\temp\"\n", string(frame))

		f, err := stream.ParseFrame(frame)
		assert.NoError(t, err)
		assert.Equal(t, stream.KindText, f.Kind)
		assert.Equal(t, text, f.Text)
	})

	t.Run("no_other_escaping", func(t *testing.T) {
		frame := stream.TextFrame("<a & b>")
		assert.Equal(t, "0:\"<a & b>\"\n", string(frame))
	})
}

func TestDeltaFrame(t *testing.T) {
	frame, err := stream.DeltaFrame("line one\nline \"two\" <b>")
	assert.NoError(t, err)
	assert.Equal(t,
		"0:\"line one\\nline \\\"two\\\" <b>\"\n", string(frame),
	)

	f, err := stream.ParseFrame(frame)
	assert.NoError(t, err)
	assert.Equal(t, "line one\nline \"two\" <b>", f.Text)
}

func TestToolCallFrame(t *testing.T) {
	t.Run("blueprint", func(t *testing.T) {
		next := api.StepID("step-2")
		bp := &api.WorkflowBlueprint{
			WorkflowID: "workflow-1",
			Goal:       "a & b",
			Nodes: []api.Node{{
				ID:       "step-1",
				Type:     api.NodeInput,
				Position: api.Position{X: 100, Y: 250},
				Data:     api.NodeData{Label: "L", Tool: "t"},
			}},
			Edges: []api.Edge{},
			Steps: []api.WorkflowStep{{
				ID:         "step-1",
				Name:       "L",
				Parameters: api.Params{},
				NextStepID: &next,
			}},
		}

		frame, err := stream.ToolCallFrame(
			"tool-call-1", api.RenderBlueprint{Blueprint: bp},
		)
		assert.NoError(t, err)
		assert.Equal(t,
			`2:{"toolCalls":[{"toolCallId":"tool-call-1",`+
				`"toolName":"renderWorkflowBlueprint","args":`+
				`{"workflow_id":"workflow-1","goal":"a & b","nodes":[`+
				`{"id":"step-1","type":"input","position":{"x":100,"y":250},`+
				`"data":{"label":"L","description":"","tool":"t",`+
				`"action_type":""}}],"edges":[],"steps":[{"id":"step-1",`+
				`"name":"L","description":"","action_type":"","tool":"",`+
				`"parameters":{},"next_step_id":"step-2"}]}}]}`+"\n",
			string(frame),
		)

		f, err := stream.ParseFrame(frame)
		assert.NoError(t, err)
		assert.Len(t, f.ToolCalls, 1)
		inv, err := f.ToolCalls[0].Invocation()
		assert.NoError(t, err)
		rb, ok := inv.(api.RenderBlueprint)
		assert.True(t, ok)
		assert.Equal(t, bp.WorkflowID, rb.Blueprint.WorkflowID)
	})

	t.Run("api_key", func(t *testing.T) {
		frame, err := stream.ToolCallFrame(
			"call_1", api.AskForAPIKey{Service: "Airtable"},
		)
		assert.NoError(t, err)
		assert.Equal(t,
			`2:{"toolCalls":[{"toolCallId":"call_1",`+
				`"toolName":"askForApiKey","args":{"service":"Airtable"}}]}`+
				"\n",
			string(frame),
		)
	})
}

func TestFinishFrame(t *testing.T) {
	assert.Equal(t, "d:{\"finishReason\":\"stop\"}\n",
		string(stream.FinishFrame()))

	f, err := stream.ParseFrame(stream.FinishFrame())
	assert.NoError(t, err)
	assert.Equal(t, stream.KindFinish, f.Kind)
	assert.Equal(t, stream.FinishReasonStop, f.FinishReason)
}

func TestParseFrameErrors(t *testing.T) {
	_, err := stream.ParseFrame([]byte("x"))
	assert.ErrorIs(t, err, stream.ErrMalformedFrame)

	_, err = stream.ParseFrame([]byte(`0:"unterminated`))
	assert.ErrorIs(t, err, stream.ErrMalformedFrame)

	_, err = stream.ParseFrame([]byte(`7:{}`))
	assert.ErrorIs(t, err, stream.ErrUnknownFrame)
}
