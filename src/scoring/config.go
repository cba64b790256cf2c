package scoring

import "github.com/oakleaf-learning/scoring-core/src/system/sets"

// Configuration is the per-course "scoring" object the host supplies.
// DefaultConfiguration matches the documented defaults: passmark enabled,
// 60/60 thresholds, scaled, subset-pass not required, not backward
// compatible.
type Configuration struct {
	ID                   string
	Title                string
	Passmark             sets.Passmark
	IsBackwardCompatible bool
}

func DefaultConfiguration() Configuration {
	return Configuration{Passmark: sets.DefaultPassmark()}
}
