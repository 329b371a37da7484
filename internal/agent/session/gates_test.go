package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"convoyinspect/internal/agent/models"
)

func ref(path string) *models.AssetRef {
	return &models.AssetRef{Path: path, ContentType: "image/jpeg", CapturedAt: time.Now()}
}

func captureAllRequired(t *testing.T, s *Session) {
	t.Helper()
	for _, slot := range s.View().RequiredSlots {
		require.NoError(t, s.CaptureRequired(slot.Type, ref("/tmp/"+slot.Type+".jpg")))
	}
}

func fillDetails(s *Session) {
	s.SetMileage(120000)
	s.SetFuelLevel(75)
}

func sign(s *Session) {
	s.SetClientSignature("Alice Martin", []byte{1, 2})
	s.SetDriverSignature("Bob Leroy", []byte{3, 4})
}

func TestPhotosGateBlocksUntilAllRequiredCaptured(t *testing.T) {
	s := New("m1", models.InspectionDeparture)

	slots := s.View().RequiredSlots
	require.Len(t, slots, 8)

	// capture 7 of 8
	for _, slot := range slots[:7] {
		require.NoError(t, s.CaptureRequired(slot.Type, ref("/tmp/x.jpg")))
	}

	g := s.Next()
	assert.False(t, g.OK)
	assert.Contains(t, g.Reason, "1 required photo(s) missing")
	assert.Contains(t, g.Reason, slots[7].Label)
	assert.Equal(t, StepPhotos, s.Step(), "blocked gate must not advance the step")

	require.NoError(t, s.CaptureRequired(slots[7].Type, ref("/tmp/y.jpg")))
	g = s.Next()
	assert.True(t, g.OK)
	assert.Equal(t, StepDetails, s.Step())
}

func TestOptionalAndDamageSlotsNeverBlock(t *testing.T) {
	s := New("m1", models.InspectionDeparture)
	captureAllRequired(t, s)

	// no optional captured, one damage photo without asset pending
	g := s.Next()
	assert.True(t, g.OK)
}

func TestDetailsGate(t *testing.T) {
	tests := []struct {
		name    string
		mileage *int64
		fuel    *int
		wantOK  bool
		reason  string
	}{
		{name: "missing mileage", fuel: ptr(50), reason: "mileage is required"},
		{name: "negative mileage", mileage: ptr[int64](-1), fuel: ptr(50), reason: "mileage cannot be negative"},
		{name: "missing fuel", mileage: ptr[int64](1000), reason: "fuel level is required"},
		{name: "fuel over range", mileage: ptr[int64](1000), fuel: ptr(101), reason: "between 0 and 100"},
		{name: "fuel under range", mileage: ptr[int64](1000), fuel: ptr(-5), reason: "between 0 and 100"},
		{name: "valid", mileage: ptr[int64](0), fuel: ptr(0), wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New("m1", models.InspectionDeparture)
			captureAllRequired(t, s)
			require.True(t, s.Next().OK)

			if tt.mileage != nil {
				s.SetMileage(*tt.mileage)
			}
			if tt.fuel != nil {
				s.SetFuelLevel(*tt.fuel)
			}

			g := s.Next()
			assert.Equal(t, tt.wantOK, g.OK)
			if !tt.wantOK {
				assert.Contains(t, g.Reason, tt.reason)
				assert.Equal(t, StepDetails, s.Step())
			}
		})
	}
}

func TestConditionsGateByType(t *testing.T) {
	// departure requires a condition assessment
	s := New("m1", models.InspectionDeparture)
	captureAllRequired(t, s)
	require.True(t, s.Next().OK)
	fillDetails(s)
	require.True(t, s.Next().OK)

	g := s.Next()
	assert.False(t, g.OK)
	assert.Contains(t, g.Reason, "condition")

	s.SetCondition(models.ConditionGood)
	assert.True(t, s.Next().OK)

	// arrival records expenses instead; all optional
	s = New("m1", models.InspectionArrival)
	captureAllRequired(t, s)
	require.True(t, s.Next().OK)
	fillDetails(s)
	require.True(t, s.Next().OK)
	assert.True(t, s.Next().OK)
}

func TestSignaturesGate(t *testing.T) {
	s := advanceToSignatures(t, models.InspectionDeparture)

	g := s.CheckAdvance()
	require.False(t, g.OK)
	assert.Contains(t, g.Reason, "client signature")

	s.SetClientSignature("Alice Martin", []byte{1})
	g = s.CheckAdvance()
	require.False(t, g.OK)
	assert.Contains(t, g.Reason, "driver signature")

	s.SetDriverSignature("  ", []byte{2})
	g = s.CheckAdvance()
	require.False(t, g.OK)
	assert.Contains(t, g.Reason, "driver signer name")

	s.SetDriverSignature("Bob Leroy", []byte{2})
	assert.True(t, s.CheckAdvance().OK)
}

func TestGateCheckIsPure(t *testing.T) {
	s := New("m1", models.InspectionDeparture)
	before := s.View()

	for i := 0; i < 5; i++ {
		g := s.CheckAdvance()
		assert.False(t, g.OK)
		assert.NotEmpty(t, g.Reason)
	}

	assert.Equal(t, before, s.View())
	assert.Equal(t, StepPhotos, s.Step())
}

func TestBackIsUnconditionalAndKeepsData(t *testing.T) {
	s := advanceToSignatures(t, models.InspectionDeparture)
	require.Equal(t, StepSignatures, s.Step())

	s.Back()
	assert.Equal(t, StepConditions, s.Step())
	s.Back()
	s.Back()
	assert.Equal(t, StepPhotos, s.Step())
	s.Back() // already at the first step
	assert.Equal(t, StepPhotos, s.Step())

	v := s.View()
	require.NotNil(t, v.MileageKm)
	assert.Equal(t, int64(120000), *v.MileageKm)
	for _, slot := range v.RequiredSlots {
		assert.True(t, slot.Captured)
	}
}

func advanceToSignatures(t *testing.T, typ models.InspectionType) *Session {
	t.Helper()
	s := New("m1", typ)
	captureAllRequired(t, s)
	require.True(t, s.Next().OK)
	fillDetails(s)
	require.True(t, s.Next().OK)
	if typ == models.InspectionDeparture {
		s.SetCondition(models.ConditionGood)
	}
	require.True(t, s.Next().OK)
	require.Equal(t, StepSignatures, s.Step())
	return s
}

func ptr[T any](v T) *T { return &v }
