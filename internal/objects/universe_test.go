package objects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	serrors "github.com/user/serpent_analyzer_go/internal/errors"
)

func TestConvertVariableName(t *testing.T) {
	assert.Equal(t, "infKinf", ConvertVariableName("INF_KINF"))
	assert.Equal(t, "b1Diff", ConvertVariableName("B1_DIFF"))
	assert.Equal(t, "infSp0", ConvertVariableName("  INF_SP0  "))
	// Two spellings that normalize identically must collide.
	assert.Equal(t, ConvertVariableName("inf_kinf"), ConvertVariableName("INF_KINF"))
}

func TestClassifyVariable(t *testing.T) {
	family, err := ClassifyVariable("infKinf")
	require.NoError(t, err)
	assert.Equal(t, FamilyInf, family)

	family, err = ClassifyVariable("b1Kinf")
	require.NoError(t, err)
	assert.Equal(t, FamilyB1, family)

	_, err = ClassifyVariable("macroE")
	require.Error(t, err)
	assert.True(t, serrors.IsType(err, serrors.TypeClassification))
}

func TestHomogUniverseRoundTrip(t *testing.T) {
	u := NewHomogUniverse("0", 0, 0, 0)

	require.NoError(t, u.Set("INF_KINF", []float64{0.991938}, false))
	require.NoError(t, u.Set("B1_KINF", []float64{1.00123}, false))

	value, unc, err := u.Get("INF_KINF", false)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.991938}, value)
	assert.Nil(t, unc)

	value, _, err = u.Get("B1_KINF", false)
	require.NoError(t, err)
	assert.Equal(t, []float64{1.00123}, value)
}

func TestHomogUniverseOverwriteWarnsOnce(t *testing.T) {
	u := NewHomogUniverse("0", 0, 0, 0)

	require.NoError(t, u.Set("INF_FLX", []float64{1}, false))
	assert.Empty(t, u.Warnings)

	require.NoError(t, u.Set("INF_FLX", []float64{2}, false))
	assert.Len(t, u.Warnings, 1)

	value, _, err := u.Get("INF_FLX", false)
	require.NoError(t, err)
	assert.Equal(t, []float64{2}, value)
}

// Pins the retrieval-with-uncertainty contract: the pair is the expected
// value and the uncertainty value, not two reads of the same slot.
func TestHomogUniverseGetUncertaintyPair(t *testing.T) {
	u := NewHomogUniverse("0", 0, 0, 0)

	require.NoError(t, u.Set("INF_KINF", []float64{0.99}, false))
	require.NoError(t, u.Set("INF_KINF", []float64{0.0015}, true))

	value, unc, err := u.Get("INF_KINF", true)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.99}, value)
	assert.Equal(t, []float64{0.0015}, unc)
}

func TestHomogUniverseUncertaintySlotsAreSeparate(t *testing.T) {
	u := NewHomogUniverse("0", 0, 0, 0)

	require.NoError(t, u.Set("B1_FLX", []float64{1, 2}, false))
	require.NoError(t, u.Set("B1_FLX", []float64{0.1, 0.2}, true))
	// No overwrite warning: the two flags target different slots.
	assert.Empty(t, u.Warnings)
}

func TestHomogUniverseSetUnknownFamily(t *testing.T) {
	u := NewHomogUniverse("0", 0, 0, 0)

	err := u.Set("MACRO_E", []float64{1}, false)
	require.Error(t, err)
	assert.True(t, serrors.IsType(err, serrors.TypeClassification))
}

func TestHomogUniverseGetMissing(t *testing.T) {
	u := NewHomogUniverse("0", 0, 0, 0)

	_, _, err := u.Get("INF_ABS", false)
	require.Error(t, err)
	assert.True(t, serrors.IsType(err, serrors.TypeLookup))

	require.NoError(t, u.Set("INF_ABS", []float64{1}, false))
	_, _, err = u.Get("INF_ABS", true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "uncertainty")
}

func TestHomogUniverseVariables(t *testing.T) {
	u := NewHomogUniverse("0", 0, 0, 0)
	require.NoError(t, u.Set("INF_KINF", []float64{1}, false))
	require.NoError(t, u.Set("INF_ABS", []float64{2}, false))
	require.NoError(t, u.Set("B1_KINF", []float64{3}, false))

	assert.Equal(t, []string{"infAbs", "infKinf"}, u.Variables(FamilyInf))
	assert.Equal(t, []string{"b1Kinf"}, u.Variables(FamilyB1))
}
