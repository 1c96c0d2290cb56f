package balance

import "fmt"

// maxRandomPasses caps the shuffled orderings tried per call.
const maxRandomPasses = 16

// Config defines optimizer settings.
type Config struct {
	// Seed feeds the generator used for shuffled orderings.
	Seed int64 `json:"seed"`

	// RandomPasses is the number of shuffled orderings tried for small
	// installations.
	RandomPasses int `json:"random_passes"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.RandomPasses == 0 {
		c.RandomPasses = 1
	}
}

// Validate checks the configured values.
func (c Config) Validate() error {
	if c.RandomPasses < 1 || c.RandomPasses > maxRandomPasses {
		return fmt.Errorf("random_passes must be between 1 and %d, got %d", maxRandomPasses, c.RandomPasses)
	}
	return nil
}
