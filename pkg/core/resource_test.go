package core_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/cell/pkg/core"
)

func TestDefaultLocationResource(t *testing.T) {
	before := time.Now().UnixMilli()
	first := core.DefaultLocationResource()
	second := core.DefaultLocationResource()
	after := time.Now().UnixMilli()

	assert.Equal(t, core.DefaultID, first.ID)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Latitude, second.Latitude)
	assert.Equal(t, first.Longitude, second.Longitude)

	assert.GreaterOrEqual(t, second.Time, first.Time, "time must not go backwards")
	assert.GreaterOrEqual(t, first.Time, before)
	assert.LessOrEqual(t, second.Time, after)

	require.NoError(t, first.Validate())
}

func TestDefaultPriceResource(t *testing.T) {
	first := core.DefaultPriceResource()
	second := core.DefaultPriceResource()

	assert.Equal(t, core.DefaultID, first.ID)
	assert.Equal(t, core.DefaultPriceTitle, first.Title)
	assert.Equal(t, core.DefaultPriceContent, first.Content)
	assert.Equal(t, first.Title, second.Title)
	assert.Equal(t, first.Content, second.Content)
	assert.GreaterOrEqual(t, second.DateCreated, first.DateCreated)

	require.NoError(t, first.Validate())
}

func TestLocationResource_Validate(t *testing.T) {
	tests := []struct {
		name string
		loc  core.LocationResource
		want error
	}{
		{"zero id", core.LocationResource{ID: 0}, core.ErrInvalidID},
		{"negative id", core.LocationResource{ID: -3}, core.ErrInvalidID},
		{"latitude too high", core.LocationResource{ID: 1, Latitude: 91}, core.ErrInvalidCoordinate},
		{"longitude too low", core.LocationResource{ID: 1, Longitude: -181}, core.ErrInvalidCoordinate},
		{"edges", core.LocationResource{ID: 1, Latitude: -90, Longitude: 180}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.loc.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestReplacementRecords(t *testing.T) {
	at := time.UnixMilli(1_700_000_000_000)

	loc := core.DefaultLocationResource()
	moved := loc.Moved(48.85, 2.35, at)
	assert.Equal(t, loc.ID, moved.ID)
	assert.Equal(t, at.UnixMilli(), moved.Time)
	assert.Equal(t, 48.85, moved.Latitude)
	assert.True(t, moved.Timestamp().Equal(at))

	price := core.DefaultPriceResource()
	revised := price.Revised("12.50", at)
	assert.Equal(t, price.ID, revised.ID)
	assert.Equal(t, price.Title, revised.Title)
	assert.Equal(t, "12.50", revised.Content)
	assert.Equal(t, at.UnixMilli(), revised.DateCreated)

	// The original is untouched.
	assert.Equal(t, core.DefaultPriceContent, price.Content)
}

func TestTransformError(t *testing.T) {
	cause := errors.New("boom")
	err := error(&core.TransformError{Store: "counter", Cause: cause})

	assert.ErrorIs(t, err, core.ErrTransformFailed)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, core.ErrPersistFailed)
	assert.Contains(t, err.Error(), "counter")
}

func TestEvent_String(t *testing.T) {
	assert.Equal(t, "COMMIT location #3", core.Event{Type: core.EventCommit, ID: "location", Seq: 3}.String())
	assert.Equal(t, "MODIFY price.yaml", core.Event{Type: core.EventModify, ID: "price.yaml"}.String())
}
