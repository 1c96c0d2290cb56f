package scenarios

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/phasebal/core/model"
)

// Expected describes the outcome a scenario must produce.
type Expected struct {
	L1              float64             `yaml:"l1"`
	L2              float64             `yaml:"l2"`
	L3              float64             `yaml:"l3"`
	Imbalance       float64             `yaml:"imbalance"`
	Compliant       bool                `yaml:"compliant"`
	Recommendations int                 `yaml:"recommendations"`
	Neutral         float64             `yaml:"neutral"`
	Phases          map[int]model.Phase `yaml:"phases,omitempty"`

	// RejectedCircuit expects validation to fail on this circuit number.
	RejectedCircuit int `yaml:"rejected_circuit,omitempty"`
}

// Scenario is a circuit schedule run through the balancer.
type Scenario struct {
	Name         string              `yaml:"name"`
	Description  string              `yaml:"description,omitempty"`
	Seed         int64               `yaml:"seed"`
	RandomPasses int                 `yaml:"random_passes"`
	Circuits     []model.CircuitLoad `yaml:"circuits"`
	Expected     Expected            `yaml:"expected"`
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}
