package conductor

import (
	"encoding/json"
	"os"
	"time"

	"github.com/wboxxx/magicstomp-autotune/internal/apperr"
	"github.com/wboxxx/magicstomp-autotune/internal/lossengine"
	"github.com/wboxxx/magicstomp-autotune/internal/optimizer"
)

// SessionReport is the JSON artifact cmd/magicstomp optimize writes after
// a successful run, spec.md §3's SessionReport supplement: enough to
// reconstruct what was tried and why it stopped, without re-running the
// hardware.
type SessionReport struct {
	CreatedAt    string                    `json:"created_at"`
	EffectType   string                    `json:"effect_type"`
	FinalState   string                    `json:"final_state"`
	Calibration  interface{}               `json:"calibration,omitempty"`
	Optimization *optimizer.Report         `json:"optimization,omitempty"`
	DetailedLoss *lossengine.DetailedLoss  `json:"detailed_loss,omitempty"`
	Aux          *lossengine.AuxiliaryDistances `json:"auxiliary_distances,omitempty"`
	Error        string                    `json:"error,omitempty"`
}

// WriteSessionReport marshals report as indented JSON to
// dir/<strftime filename>.json and returns the path written.
func WriteSessionReport(dir string, now time.Time, report SessionReport) (string, error) {
	name, err := SessionReportFilename(now)
	if err != nil {
		return "", err
	}
	path := dir + "/" + name + ".json"

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", apperr.Newf(apperr.KindConfigureFailed, "conductor.WriteSessionReport", "marshal: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", apperr.Newf(apperr.KindConfigureFailed, "conductor.WriteSessionReport", "write %s: %v", path, err)
	}
	return path, nil
}
