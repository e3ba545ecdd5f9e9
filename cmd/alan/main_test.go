package main

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/LawrenceCirillo/Alan/internal/chat"
	"github.com/LawrenceCirillo/Alan/internal/config"
	"github.com/LawrenceCirillo/Alan/internal/planner"
	"github.com/LawrenceCirillo/Alan/internal/server"
	"github.com/LawrenceCirillo/Alan/internal/store"
	"github.com/LawrenceCirillo/Alan/pkg/api"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("MOCK_MODE", "true")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("STATUS_DELAY_MS", "0")
	t.Setenv("FRAME_DELAY_MS", "0")

	var out bytes.Buffer
	root := newRootCommand()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	assert.NoError(t, err)
	assert.Equal(t, "alan 0.4.0\n", out)
}

func TestClassifyCommand(t *testing.T) {
	out, err := execute(t, "classify", "When", "a", "form", "arrives")
	assert.NoError(t, err)
	assert.Equal(t, "goal\n", out)

	out, err = execute(t, "classify", "hello there")
	assert.NoError(t, err)
	assert.Equal(t, "chat\n", out)
}

func TestGenerateCommand(t *testing.T) {
	out, err := execute(t, "generate", "newsletter", "signups")
	assert.NoError(t, err)

	var bp api.WorkflowBlueprint
	assert.NoError(t, json.Unmarshal([]byte(out), &bp))
	assert.Equal(t, "newsletter signups", bp.Goal)
	assert.Len(t, bp.Steps, 3)
}

func TestChatCommand(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.OfflineForced = true
	cfg.StatusDelay = 0
	cfg.FrameDelay = 0

	srv := server.NewServer(
		chat.NewHandler(cfg, nil),
		planner.New(nil, store.NewMemoryStore(4)),
	)
	ts := httptest.NewServer(srv.SetupRoutes())
	defer ts.Close()

	out, err := execute(t, "chat", "--url", ts.URL, "Connect", "Airtable")
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(out,
		"Got it! You want to: connect airtable.",
	))
	assert.Contains(t, out, "Analyzing your goal...")
	assert.Contains(t, out, "[renderWorkflowBlueprint]")
	assert.Contains(t, out, `"workflow_id"`)
}

func TestInvalidConfig(t *testing.T) {
	t.Setenv("API_PORT", "99999")
	_, err := execute(t, "classify", "hello")
	assert.Error(t, err)
}

func TestMissingConfigFile(t *testing.T) {
	_, err := execute(t, "--config", "/nonexistent/alan.yaml", "version")
	assert.NoError(t, err)

	_, err = execute(t, "--config", "/nonexistent/alan.yaml", "classify", "x")
	assert.ErrorIs(t, err, config.ErrReadConfigFile)
}
