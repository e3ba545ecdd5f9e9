package narrator_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	res, err := json.Marshal(v)
	require.NoError(t, err)
	return res
}
