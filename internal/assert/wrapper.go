package assert

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LawrenceCirillo/Alan/internal/config"
	"github.com/LawrenceCirillo/Alan/pkg/api"
	"github.com/LawrenceCirillo/Alan/pkg/stream"
)

// Wrapper wraps testify assertions with Alan-specific helpers
type Wrapper struct {
	*testing.T
	*assert.Assertions
	Require *require.Assertions
}

// New creates a new test assertion wrapper with both assert and require from
// testify plus Alan-specific helpers
func New(t *testing.T) *Wrapper {
	return &Wrapper{
		T:          t,
		Assertions: assert.New(t),
		Require:    require.New(t),
	}
}

// ConfigValid asserts that a configuration is valid
func (w *Wrapper) ConfigValid(cfg *config.Config) {
	w.Helper()
	w.NoError(cfg.Validate())
	w.True(cfg.APIPort > 0 && cfg.APIPort <= config.MaxTCPPort)
	w.True(cfg.StatusDelay >= 0)
	w.True(cfg.FrameDelay >= 0)
}

// ConfigInvalid asserts that a configuration is invalid
func (w *Wrapper) ConfigInvalid(cfg *config.Config, expected error) {
	w.Helper()
	err := cfg.Validate()
	w.Error(err)
	if expected != nil {
		w.ErrorIs(err, expected)
	}
}

// BlueprintValid asserts that a blueprint is a well-formed linear chain
// whose nodes are typed by position
func (w *Wrapper) BlueprintValid(bp *api.WorkflowBlueprint) {
	w.Helper()
	w.Require.NotNil(bp)
	w.Require.NoError(bp.Validate())
	w.Equal(len(bp.Steps)-1, len(bp.Edges))

	for i, n := range bp.Nodes {
		w.Equal(bp.Steps[i].ID, n.ID)
		switch {
		case i == 0:
			w.Equal(api.NodeInput, n.Type)
		case i == len(bp.Nodes)-1:
			w.Equal(api.NodeOutput, n.Type)
		default:
			w.Equal(api.NodeDefault, n.Type)
		}
	}
}

// StreamWellFormed asserts that raw is a complete data stream: every line
// is a whole frame and exactly one completion frame comes last. It returns
// the parsed frames
func (w *Wrapper) StreamWellFormed(raw []byte) []*stream.Frame {
	w.Helper()
	w.Require.NotEmpty(raw)
	w.Require.True(bytes.HasSuffix(raw, []byte("\n")),
		"stream should end with a newline")

	lines := strings.Split(strings.TrimSuffix(string(raw), "\n"), "\n")
	res := make([]*stream.Frame, 0, len(lines))
	finishes := 0
	for _, line := range lines {
		f, err := stream.ParseFrame([]byte(line))
		w.Require.NoError(err, "malformed frame: %q", line)
		if f.Kind == stream.KindFinish {
			finishes++
		}
		res = append(res, f)
	}

	w.Equal(1, finishes, "stream should carry exactly one finish frame")
	w.Equal(stream.KindFinish, res[len(res)-1].Kind)
	return res
}

// FrameTexts returns the text of every text frame, in order
func FrameTexts(frames []*stream.Frame) []string {
	var res []string
	for _, f := range frames {
		if f.Kind == stream.KindText {
			res = append(res, f.Text)
		}
	}
	return res
}
