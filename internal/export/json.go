package export

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/gravlab/internal/engine"
)

type RunData struct {
	Scenario     string             `json:"scenario"`
	Mode         string             `json:"collision_mode"`
	Dt           float64            `json:"dt"`
	Duration     float64            `json:"duration"`
	Steps        int                `json:"steps"`
	AbsorbedMass float64            `json:"absorbed_mass"`
	EnergyDrift  float64            `json:"energy_drift"`
	Samples      []engine.Sample    `json:"samples"`
	Metrics      map[string]float64 `json:"metrics"`
}

func WriteJSON(out io.Writer, scenario, mode string, dt, duration float64, result *engine.Result) error {
	data := RunData{
		Scenario:     scenario,
		Mode:         mode,
		Dt:           dt,
		Duration:     duration,
		Steps:        result.StepsTaken,
		AbsorbedMass: result.AbsorbedMass,
		EnergyDrift:  result.EnergyDrift,
		Samples:      result.Samples,
		Metrics:      result.Metrics,
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func ExportJSON(path, scenario, mode string, dt, duration float64, result *engine.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteJSON(file, scenario, mode, dt, duration, result)
}
