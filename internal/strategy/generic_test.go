package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mylabvault/labvault/constants"
	"github.com/mylabvault/labvault/internal/entity"
)

func TestGenericStrategyScansTokens(t *testing.T) {
	frags := []entity.RawFragment{
		frag("Some Clinic Lab Report", 0, 40, 760),
		frag("TSH", 0, 40, 700),
		frag("(3rd", 0, 80, 700),
		frag("Gen)", 0, 120, 700),
		frag("2.31", 0, 180, 700),
		frag("uIU/mL", 0, 240, 700),
		frag("0.450-4.500", 0, 320, 700),

		frag("RPR", 0, 40, 680),
		frag("Non-Reactive", 0, 180, 680),
	}

	rows := GenericStrategy{}.ExtractRows(frags)
	require.Len(t, rows, 2)

	assert.Equal(t, constants.StrategyGeneric, rows[0].StrategyID)
	assert.Equal(t, "TSH (3rd Gen)", rows[0].Cells.Name)
	assert.Equal(t, "2.31", rows[0].Cells.Value)
	assert.Equal(t, "uIU/mL", rows[0].Cells.Unit)
	assert.Equal(t, "0.450-4.500", rows[0].Cells.Range)

	assert.Equal(t, "RPR", rows[1].Cells.Name)
	assert.Equal(t, "Non-Reactive", rows[1].Cells.Value)
}

func TestGenericStrategyFlagToken(t *testing.T) {
	frags := []entity.RawFragment{
		frag("Glucose", 0, 40, 700),
		frag("105", 0, 180, 700),
		frag("mg/dL", 0, 240, 700),
		frag("70-99", 0, 320, 700),
		frag("H", 0, 400, 700),
	}
	rows := GenericStrategy{}.ExtractRows(frags)
	require.Len(t, rows, 1)
	assert.Equal(t, "H", rows[0].Cells.Flag)
}

func TestGenericStrategyFlagWithoutUnit(t *testing.T) {
	frags := []entity.RawFragment{
		frag("Troponin", 0, 40, 700),
		frag("3.2", 0, 180, 700),
		frag("H", 0, 240, 700),
	}
	rows := GenericStrategy{}.ExtractRows(frags)
	require.Len(t, rows, 1)
	assert.Equal(t, "H", rows[0].Cells.Flag, "a bare flag letter is not a unit")
	assert.Empty(t, rows[0].Cells.Unit)
}

func TestGenericStrategyQualitativeRange(t *testing.T) {
	frags := []entity.RawFragment{
		frag("HIV", 0, 40, 700),
		frag("Ab", 0, 70, 700),
		frag("Negative", 0, 180, 700),
		frag("Negative", 0, 320, 700),
	}
	rows := GenericStrategy{}.ExtractRows(frags)
	require.Len(t, rows, 1)
	assert.Equal(t, "HIV Ab", rows[0].Cells.Name)
	assert.Equal(t, "Negative", rows[0].Cells.Value)
	assert.Equal(t, "Negative", rows[0].Cells.Range, "the second qualitative word is the expected range, not a unit")
	assert.Empty(t, rows[0].Cells.Unit)
}

func TestGenericStrategySkipsValuelessRows(t *testing.T) {
	frags := []entity.RawFragment{
		frag("Ordering Physician:", 0, 40, 740),
		frag("SMITH JOHN", 0, 180, 740),
		frag("95", 0, 40, 700), // value with no preceding name
	}
	rows := GenericStrategy{}.ExtractRows(frags)
	assert.Empty(t, rows)
}

func TestGenericStrategySplitRowBand(t *testing.T) {
	// Fragments within the band tolerance land in one visual row even when
	// their baselines wobble.
	frags := []entity.RawFragment{
		frag("Sodium", 0, 40, 700),
		frag("141", 0, 180, 702),
		frag("mmol/L", 0, 240, 698),
	}
	rows := GenericStrategy{}.ExtractRows(frags)
	require.Len(t, rows, 1)
	assert.Equal(t, "Sodium", rows[0].Cells.Name)
	assert.Equal(t, "141", rows[0].Cells.Value)
}
