package slots

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"convoyinspect/internal/agent/models"
)

func TestRequiredSlotsAreFresh(t *testing.T) {
	a := Required(models.InspectionDeparture)
	require.NotEmpty(t, a)
	for _, s := range a {
		assert.False(t, s.Captured)
		assert.Nil(t, s.Asset)
		assert.NotEmpty(t, s.Type)
		assert.NotEmpty(t, s.Label)
	}

	// mutating one catalog copy must not leak into the next
	a[0].Captured = true
	b := Required(models.InspectionDeparture)
	assert.False(t, b[0].Captured)
}

func TestCatalogPerType(t *testing.T) {
	assert.Len(t, Required(models.InspectionDeparture), 8)
	assert.Len(t, Required(models.InspectionArrival), 8)
	assert.NotEmpty(t, Optional(models.InspectionDeparture))
	assert.NotEmpty(t, Optional(models.InspectionArrival))
}
