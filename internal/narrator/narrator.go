package narrator

import (
	"context"
	"time"

	"github.com/LawrenceCirillo/Alan/internal/blueprint"
	"github.com/LawrenceCirillo/Alan/pkg/api"
	"github.com/LawrenceCirillo/Alan/pkg/util"
)

type (
	// Update is one item produced while narrating a synthesis. Exactly one
	// of Status, Blueprint or Err is set
	Update struct {
		Status    string
		Blueprint *api.WorkflowBlueprint
		Err       error
	}

	// Narrator reports progress while a blueprint is synthesized
	Narrator struct {
		synth   blueprint.Synthesizer
		offline bool
		delay   time.Duration
	}
)

const (
	StatusAnalyzing   = "Analyzing your goal..."
	StatusIdentifying = "Identifying required integrations..."
	StatusDesigning   = "Designing workflow steps..."
	StatusGenerating  = "Generating workflow blueprint..."
)

var offlineStatuses = []string{
	StatusAnalyzing,
	StatusIdentifying,
	StatusDesigning,
	StatusGenerating,
}

// New creates a Narrator. In offline mode every status is followed by
// delay before the blueprint is synthesized
func New(
	synth blueprint.Synthesizer, offline bool, delay time.Duration,
) *Narrator {
	return &Narrator{
		synth:   synth,
		offline: offline,
		delay:   delay,
	}
}

// IsTerminal reports whether u is the last update of a narration
func (u Update) IsTerminal() bool {
	return u.Blueprint != nil || u.Err != nil
}

// Narrate starts producing updates for goal. The channel is unbuffered and
// closed after the terminal update, or early if ctx is cancelled
func (n *Narrator) Narrate(ctx context.Context, goal string) <-chan Update {
	ch := make(chan Update)
	go func() {
		defer close(ch)
		if n.offline {
			n.narrateOffline(ctx, goal, ch)
			return
		}
		n.narrateConnected(ctx, goal, ch)
	}()
	return ch
}

func (n *Narrator) narrateOffline(
	ctx context.Context, goal string, ch chan<- Update,
) {
	for _, s := range offlineStatuses {
		if !send(ctx, ch, Update{Status: s}) {
			return
		}
		if util.Sleep(ctx, n.delay) != nil {
			return
		}
	}
	bp, err := n.synth.Synthesize(ctx, goal)
	send(ctx, ch, terminal(bp, err))
}

func (n *Narrator) narrateConnected(
	ctx context.Context, goal string, ch chan<- Update,
) {
	if !send(ctx, ch, Update{Status: StatusAnalyzing}) {
		return
	}

	req, ok := n.synth.(blueprint.Requester)
	if !ok {
		bp, err := n.synth.Synthesize(ctx, goal)
		if err != nil {
			send(ctx, ch, Update{Err: err})
			return
		}
		if !send(ctx, ch, Update{Status: StatusDesigning}) {
			return
		}
		send(ctx, ch, Update{Blueprint: bp})
		return
	}

	pending, err := req.Request(ctx, goal)
	if err != nil {
		send(ctx, ch, Update{Err: err})
		return
	}
	if !send(ctx, ch, Update{Status: StatusDesigning}) {
		pending.Discard()
		return
	}
	send(ctx, ch, terminal(pending.Result()))
}

func terminal(bp *api.WorkflowBlueprint, err error) Update {
	if err != nil {
		return Update{Err: err}
	}
	return Update{Blueprint: bp}
}

func send(ctx context.Context, ch chan<- Update, u Update) bool {
	if ctx.Err() != nil {
		return false
	}
	select {
	case ch <- u:
		return true
	case <-ctx.Done():
		return false
	}
}
