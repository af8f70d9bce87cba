package objects

import (
	"fmt"
	"sort"
	"strings"

	serrors "github.com/user/serpent_analyzer_go/internal/errors"
	"github.com/user/serpent_analyzer_go/internal/logging"
)

// VariableFamily is the closed classification set for homogenized group
// constants. Every stored variable belongs to exactly one family, assigned
// at normalization time.
type VariableFamily int

const (
	// FamilyInf holds infinite-medium results (INF_* variables).
	FamilyInf VariableFamily = iota + 1
	// FamilyB1 holds critical-spectrum results (B1_* variables).
	FamilyB1
)

func (f VariableFamily) String() string {
	switch f {
	case FamilyInf:
		return "inf"
	case FamilyB1:
		return "b1"
	}
	return "unknown"
}

// ConvertVariableName normalizes a raw file variable name to camelCase:
// "INF_KINF" becomes "infKinf", "B1_DIFF" becomes "b1Diff". Two raw
// spellings that normalize identically collide in storage.
func ConvertVariableName(name string) string {
	parts := strings.Split(strings.TrimSpace(name), "_")
	var b strings.Builder
	for i, part := range parts {
		part = strings.ToLower(part)
		if part == "" {
			continue
		}
		if i == 0 || b.Len() == 0 {
			b.WriteString(part)
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}
	return b.String()
}

// ClassifyVariable assigns a normalized variable name to its family. A
// name outside the known set is a fatal classification error.
func ClassifyVariable(normalized string) (VariableFamily, error) {
	switch {
	case strings.HasPrefix(normalized, "inf"):
		return FamilyInf, nil
	case strings.HasPrefix(normalized, "b1"):
		return FamilyB1, nil
	}
	return 0, serrors.Newf(serrors.TypeClassification,
		"variable %q belongs to neither the inf nor the b1 family", normalized)
}

// HomogUniverse stores the homogenized group constants of one universe:
// expected values and uncertainties for the inf and b1 families, keyed by
// normalized variable name. Within a family the expected and uncertainty
// maps share a key set once a full record has been loaded; the two slots
// are populated by separate, possibly interleaved, Set calls.
type HomogUniverse struct {
	Name   string
	Burnup float64
	Step   int
	Day    float64

	infExp map[string][]float64
	infUnc map[string][]float64
	b1Exp  map[string][]float64
	b1Unc  map[string][]float64

	// Warnings collects non-fatal issues (variable overwrites).
	Warnings []string
}

// NewHomogUniverse creates a universe tagged with its burnup point.
func NewHomogUniverse(name string, burnup float64, step int, day float64) *HomogUniverse {
	return &HomogUniverse{
		Name:   name,
		Burnup: burnup,
		Step:   step,
		Day:    day,
		infExp: make(map[string][]float64),
		infUnc: make(map[string][]float64),
		b1Exp:  make(map[string][]float64),
		b1Unc:  make(map[string][]float64),
	}
}

func (u *HomogUniverse) slot(family VariableFamily, uncertainty bool) map[string][]float64 {
	switch family {
	case FamilyInf:
		if uncertainty {
			return u.infUnc
		}
		return u.infExp
	default:
		if uncertainty {
			return u.b1Unc
		}
		return u.b1Exp
	}
}

// Set stores a value (or, with uncertainty, its uncertainty) under the
// normalized variable name. Re-setting an occupied slot is a non-fatal
// overwrite warning; an unclassifiable name is fatal.
func (u *HomogUniverse) Set(name string, value []float64, uncertainty bool) error {
	normalized := ConvertVariableName(name)
	family, err := ClassifyVariable(normalized)
	if err != nil {
		return err
	}
	target := u.slot(family, uncertainty)
	if _, exists := target[normalized]; exists {
		warning := fmt.Sprintf("variable %q on universe %q will be overwritten", normalized, u.Name)
		u.Warnings = append(u.Warnings, warning)
		logging.Get().Warn(warning)
	}
	target[normalized] = value
	return nil
}

// Get retrieves a stored variable. Without uncertainty it returns the
// expected value only. With uncertainty it returns the expected value and
// the uncertainty value as a pair. A missing slot is a lookup error.
func (u *HomogUniverse) Get(name string, uncertainty bool) (value, unc []float64, err error) {
	normalized := ConvertVariableName(name)
	family, err := ClassifyVariable(normalized)
	if err != nil {
		return nil, nil, err
	}

	value, ok := u.slot(family, false)[normalized]
	if !uncertainty {
		if !ok {
			return nil, nil, serrors.Newf(serrors.TypeLookup,
				"variable %q not stored on universe %q", normalized, u.Name)
		}
		return value, nil, nil
	}

	unc, uncOK := u.slot(family, true)[normalized]
	var missing []string
	if !ok {
		missing = append(missing, "expected")
	}
	if !uncOK {
		missing = append(missing, "uncertainty")
	}
	if len(missing) > 0 {
		return nil, nil, serrors.Newf(serrors.TypeLookup,
			"variable %q not stored on universe %q (missing: %s)",
			normalized, u.Name, strings.Join(missing, ", "))
	}
	return value, unc, nil
}

// Variables lists the stored expected-value names of one family, sorted.
func (u *HomogUniverse) Variables(family VariableFamily) []string {
	m := u.slot(family, false)
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
