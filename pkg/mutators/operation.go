package mutators

import (
	"fmt"
	"strings"

	"github.com/pluqqy/taxo-terminal/pkg/i18n"
	"github.com/pluqqy/taxo-terminal/pkg/models"
	"github.com/pluqqy/taxo-terminal/pkg/taxonomy"
	"github.com/pluqqy/taxo-terminal/pkg/validation"
)

// Kind names a batch mutation
type Kind int

const (
	KindExtractSegment Kind = iota
	KindExtractActivation
	KindTrimTargeting
	KindKeepTargeting
)

// Action names used by recipes and the CLI
const (
	ActionExtractSegment    = "extract-segment"
	ActionExtractActivation = "extract-activation"
	ActionTrimTargeting     = "trim-targeting"
	ActionKeepTargeting     = "keep-targeting"
)

func (k Kind) String() string {
	switch k {
	case KindExtractSegment:
		return ActionExtractSegment
	case KindExtractActivation:
		return ActionExtractActivation
	case KindTrimTargeting:
		return ActionTrimTargeting
	case KindKeepTargeting:
		return ActionKeepTargeting
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Operation is one batch mutation request. Segment is only used by
// KindExtractSegment and is 1-indexed.
type Operation struct {
	Kind    Kind
	Segment int
}

// ExtractSegment requests the n-th segment of every taxonomy cell
func ExtractSegment(n int) Operation {
	return Operation{Kind: KindExtractSegment, Segment: n}
}

// ExtractActivation requests the activation id of every taxonomy cell
func ExtractActivation() Operation {
	return Operation{Kind: KindExtractActivation}
}

// TrimTargeting requests removal of caret patterns from every targeting cell
func TrimTargeting() Operation {
	return Operation{Kind: KindTrimTargeting}
}

// KeepTargeting requests that only the caret patterns of every targeting cell remain
func KeepTargeting() Operation {
	return Operation{Kind: KindKeepTargeting}
}

// ParseAction maps a recipe or CLI action name to an Operation
func ParseAction(action string, segment int) (Operation, error) {
	var op Operation
	switch strings.ToLower(strings.TrimSpace(action)) {
	case ActionExtractSegment:
		op = ExtractSegment(segment)
	case ActionExtractActivation:
		op = ExtractActivation()
	case ActionTrimTargeting:
		op = TrimTargeting()
	case ActionKeepTargeting:
		op = KeepTargeting()
	default:
		return Operation{}, fmt.Errorf("unknown action %q", action)
	}
	return op, op.Validate()
}

// Validate rejects out-of-range segment numbers
func (o Operation) Validate() error {
	switch o.Kind {
	case KindExtractSegment:
		if o.Segment < 1 || o.Segment > models.SegmentCount {
			return fmt.Errorf("segment %d out of range 1-%d", o.Segment, models.SegmentCount)
		}
	case KindExtractActivation, KindTrimTargeting, KindKeepTargeting:
	default:
		return fmt.Errorf("unknown operation %s", o.Kind)
	}
	return nil
}

// IsTargeting reports whether the operation works on caret patterns
func (o Operation) IsTargeting() bool {
	return o.Kind == KindTrimTargeting || o.Kind == KindKeepTargeting
}

// AllowedIn reports whether the operation may run while the preview is in mode.
// Taxonomy extraction needs Normal mode; trim and keep need Targeting mode.
func (o Operation) AllowedIn(mode models.Mode) bool {
	if o.IsTargeting() {
		return mode == models.ModeTargeting
	}
	return mode == models.ModeNormal
}

// Field names the validated field the operation writes back. Targeting
// operations write the whole cell.
func (o Operation) Field() string {
	switch o.Kind {
	case KindExtractSegment:
		return validation.SegmentField(o.Segment)
	case KindExtractActivation:
		return validation.FieldActivationID
	default:
		return validation.FieldCell
	}
}

// Transform returns the cell-level transform for the operation
func (o Operation) Transform() taxonomy.Transform {
	switch o.Kind {
	case KindExtractSegment:
		return taxonomy.SegmentTransform(o.Segment)
	case KindExtractActivation:
		return taxonomy.ExtractActivationID
	case KindTrimTargeting:
		return taxonomy.TrimTargeting
	case KindKeepTargeting:
		return taxonomy.KeepTargeting
	default:
		return func(string) (string, bool) { return "", false }
	}
}

// Description returns the localized, human-readable name used for undo entries
func (o Operation) Description(loc i18n.Localizer) string {
	switch o.Kind {
	case KindExtractSegment:
		return loc.GetString("operation.extract_segment", i18n.Params{"segment": o.Segment})
	case KindExtractActivation:
		return loc.GetString("operation.extract_activation", nil)
	case KindTrimTargeting:
		return loc.GetString("operation.trim_targeting", nil)
	case KindKeepTargeting:
		return loc.GetString("operation.keep_targeting", nil)
	default:
		return o.Kind.String()
	}
}
