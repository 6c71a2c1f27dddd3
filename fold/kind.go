package fold

import (
	"fmt"
	"strings"
)

// Kind enumerates the supported trajectory shapes.
type Kind int

const (
	// Circular swings the grasped edge over the fold line on a half circle.
	Circular Kind = iota
	// Linear drags the grasped edge along the fold axis in a straight line.
	Linear
)

// Kinds lists every supported trajectory kind.
var Kinds = []Kind{Circular, Linear}

func (k Kind) String() string {
	switch k {
	case Circular:
		return "circular"
	case Linear:
		return "linear"
	default:
		return "unknown"
	}
}

// ParseKind maps a trajectory name to its Kind.
func ParseKind(name string) (Kind, error) {
	for _, k := range Kinds {
		if strings.EqualFold(name, k.String()) {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, name)
}
