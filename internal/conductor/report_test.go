package conductor

import (
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionReportFilename_IsSortableAndStable(t *testing.T) {
	t1 := time.Date(2026, 3, 5, 14, 30, 0, 0, time.UTC)
	name, err := SessionReportFilename(t1)
	require.NoError(t, err)
	assert.Equal(t, "magicstomp-session-20260305T143000", name)
}

func TestWriteSessionReport_WritesValidJSON(t *testing.T) {
	dir := t.TempDir()
	report := SessionReport{
		CreatedAt:  "2026-03-05T14:30:00Z",
		EffectType: "Mono Delay",
		FinalState: StateDone.String(),
	}

	path, err := WriteSessionReport(dir, time.Date(2026, 3, 5, 14, 30, 0, 0, time.UTC), report)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded SessionReport
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, report.EffectType, decoded.EffectType)
	assert.Equal(t, report.FinalState, decoded.FinalState)
}
