package pull

import (
	"errors"
	"math"
)

// Config holds the tunables of towel reorientation pulls. Distances are in
// meters.
type Config struct {
	MinPullDistance     float64 `mapstructure:"min_pull_distance"`     // Corners closer than this to their target are not pulled
	Inset               float64 `mapstructure:"inset"`                 // Distance start and end move toward the towel center
	ComplianceDistance  float64 `mapstructure:"compliance_distance"`   // Extra depth pushed into the table at start and end
	TiltAngleDeg        float64 `mapstructure:"tilt_angle_deg"`        // Gripper tilt about its y axis
	CloseTargetDistance float64 `mapstructure:"close_target_distance"` // Below this base-to-target distance the tilt is inverted
	ApproachHeight      float64 `mapstructure:"approach_height"`       // Height of the pregrasp and retreat poses above start and end
}

// DefaultConfig returns a Config with the values used on the competition rig.
func DefaultConfig() Config {
	return Config{
		MinPullDistance:     0.05,
		Inset:               0.05,
		ComplianceDistance:  0.002,
		TiltAngleDeg:        15,
		CloseTargetDistance: 0.35,
		ApproachHeight:      0.05,
	}
}

// Validate checks that every distance is non-negative.
func (c Config) Validate() error {
	for _, v := range []float64{c.MinPullDistance, c.Inset, c.ComplianceDistance, c.CloseTargetDistance, c.ApproachHeight} {
		if v < 0 || math.IsNaN(v) {
			return errors.New("pull config distances must be non-negative")
		}
	}
	if math.IsNaN(c.TiltAngleDeg) || math.Abs(c.TiltAngleDeg) >= 90 {
		return errors.New("pull tilt angle must be within (-90, 90) degrees")
	}
	return nil
}
