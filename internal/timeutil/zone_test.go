package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateUsesBusinessZone(t *testing.T) {
	d, err := ParseDate("2023-04-15")
	require.NoError(t, err)
	assert.Equal(t, Zone(), d.Location())
	assert.Equal(t, 15, d.Day())
	assert.Equal(t, 0, d.Hour())

	_, err = ParseDate("15/04/2023")
	assert.Error(t, err)
}

func TestEndOfDayIsInclusiveBound(t *testing.T) {
	d, err := ParseDate("2023-04-20")
	require.NoError(t, err)

	end := EndOfDay(d)
	assert.False(t, d.After(end))
	assert.True(t, d.Add(24*time.Hour).After(end))
	assert.Equal(t, StartOfDay(end), d)
}

func TestFormatDisplay(t *testing.T) {
	d, err := ParseDate("2023-05-02")
	require.NoError(t, err)
	assert.Equal(t, "02/05/2023", FormatDisplay(d))
}

func TestSetZoneRejectsUnknown(t *testing.T) {
	before := Zone()
	assert.Error(t, SetZone("Nowhere/Atlantis"))
	assert.Equal(t, before, Zone())
}
