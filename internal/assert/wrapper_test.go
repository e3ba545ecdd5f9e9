package assert

import (
	"testing"

	"github.com/LawrenceCirillo/Alan/internal/blueprint"
	"github.com/LawrenceCirillo/Alan/internal/config"
	"github.com/LawrenceCirillo/Alan/pkg/stream"
)

func TestNew(t *testing.T) {
	wrapper := New(t)

	if wrapper.T != t {
		t.Error("Wrapper.T should be set to the testing.T instance")
	}
	if wrapper.Assertions == nil {
		t.Error("Wrapper.Assertions should be initialized")
	}
	if wrapper.Require == nil {
		t.Error("Wrapper.Require should be initialized")
	}
}

func TestConfigAssertions(t *testing.T) {
	w := New(t)
	w.ConfigValid(config.NewDefaultConfig())

	cfg := config.NewDefaultConfig()
	cfg.APIPort = 0
	w.ConfigInvalid(cfg, config.ErrInvalidAPIPort)
}

func TestBlueprintValid(t *testing.T) {
	bp := blueprint.Project(
		"workflow-1", "goal",
		blueprint.Chain(blueprint.GenericSteps), blueprint.ChatLayout,
	)
	New(t).BlueprintValid(bp)
}

func TestStreamWellFormed(t *testing.T) {
	w := New(t)

	var raw []byte
	raw = append(raw, stream.TextFrame("one")...)
	raw = append(raw, stream.TextFrame(`say "two"`)...)
	raw = append(raw, stream.FinishFrame()...)

	frames := w.StreamWellFormed(raw)
	w.Len(frames, 3)
	w.Equal([]string{"one", `say "two"`}, FrameTexts(frames))
}
