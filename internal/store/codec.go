package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/LawrenceCirillo/Alan/pkg/api"
)

var (
	ErrEncode = errors.New("failed to encode blueprint")
	ErrDecode = errors.New("failed to decode blueprint")
)

// Blueprints are stored as JSON so a stored value is byte-compatible with
// what the HTTP API serves
func encode(bp *api.WorkflowBlueprint) ([]byte, error) {
	if bp.WorkflowID == "" {
		return nil, api.ErrWorkflowIDRequired
	}
	data, err := json.Marshal(bp)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncode, err)
	}
	return data, nil
}

func decode(data []byte) (*api.WorkflowBlueprint, error) {
	var res api.WorkflowBlueprint
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return &res, nil
}
