package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSectionID_DecodesNumbersAndStrings(t *testing.T) {
	var payload struct {
		A SectionID `json:"a"`
		B SectionID `json:"b"`
		C SectionID `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a": 12, "b": "B2", "c": null}`), &payload))

	assert.Equal(t, SectionID("12"), payload.A)
	assert.Equal(t, SectionID("B2"), payload.B)
	assert.Equal(t, SectionID(""), payload.C)
}

func TestSectionID_MarshalKeepsNumericIDsNumeric(t *testing.T) {
	out, err := json.Marshal([]SectionID{"7", "A1"})
	require.NoError(t, err)
	assert.JSONEq(t, `[7, "A1"]`, string(out))
}

func TestVenueMap_DecodesRecommendationShapes(t *testing.T) {
	raw := `{
  "venue": {"name": "Hall", "width": 1000, "height": 700, "stage_x": 500, "stage_y": 80},
  "sections": [
    {"id": 1, "name": "101", "cx": 200, "cy": 300, "base_closeness": 40},
    {"id": 2, "name": "102", "cx": 800, "cy": 300, "base_closeness": 40}
  ],
  "cheapest": {"listing_id": 9, "price": 45.5, "section_id": 2},
  "best": [{"listing_id": 3, "price": 120, "section_id": 1}, {"listing_id": 4, "price": 130, "section_id": 2}]
}`
	var m VenueMap
	require.NoError(t, json.Unmarshal([]byte(raw), &m))

	require.Len(t, m.Sections, 2)
	require.NotNil(t, m.Cheapest.Marker)
	assert.Equal(t, SectionID("2"), m.Cheapest.Marker.SectionId)
	require.NotNil(t, m.Best.Marker)
	assert.Equal(t, int64(3), m.Best.Marker.ListingId)
	assert.True(t, m.HasSection("1"))
	assert.False(t, m.HasSection("A1"))
}

func TestVenueMap_NullAndEmptyRecommendations(t *testing.T) {
	var m VenueMap
	require.NoError(t, json.Unmarshal([]byte(`{"venue": {"name": "Hall"}, "sections": [], "cheapest": null, "best": []}`), &m))

	assert.Nil(t, m.Cheapest.Marker)
	assert.Nil(t, m.Best.Marker)

	w, h := m.Venue.Size()
	assert.Equal(t, float64(DefaultVenueWidth), w)
	assert.Equal(t, float64(DefaultVenueHeight), h)
}

func TestListing_OptionalLabels(t *testing.T) {
	var l Listing
	require.NoError(t, json.Unmarshal([]byte(`{"id": 1, "section": "101", "row": null, "price": 80}`), &l))

	assert.Equal(t, "101", l.SectionLabel())
	assert.Equal(t, "", l.RowLabel())
	assert.Equal(t, "", l.SeatLabel())
	assert.Nil(t, l.SectionId)
}
