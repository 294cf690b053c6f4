package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

const (
	DefaultVenueWidth  = 1000
	DefaultVenueHeight = 700
)

// SectionID identifies a venue section. The API sends it as a JSON number,
// but string identifiers are accepted too.
type SectionID string

func (id *SectionID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = SectionID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("section id: %w", err)
	}
	*id = SectionID(n.String())
	return nil
}

func (id SectionID) MarshalJSON() ([]byte, error) {
	if n, err := strconv.ParseInt(string(id), 10, 64); err == nil && strconv.FormatInt(n, 10) == string(id) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func (id SectionID) String() string {
	return string(id)
}

type Venue struct {
	Name   string  `json:"name"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	StageX float64 `json:"stage_x"`
	StageY float64 `json:"stage_y"`
}

// Size returns the venue dimensions, falling back to the default canvas when
// the API leaves them out.
func (v Venue) Size() (float64, float64) {
	w, h := v.Width, v.Height
	if w <= 0 {
		w = DefaultVenueWidth
	}
	if h <= 0 {
		h = DefaultVenueHeight
	}
	return w, h
}

type Section struct {
	Id            SectionID `json:"id"`
	Name          string    `json:"name"`
	Cx            float64   `json:"cx"`
	Cy            float64   `json:"cy"`
	BaseCloseness int       `json:"base_closeness"`
}

// Marker is a recommendation precomputed by the map service.
type Marker struct {
	ListingId int64     `json:"listing_id"`
	Price     float64   `json:"price"`
	SectionId SectionID `json:"section_id"`
}

// Recommendation holds at most one marker. It decodes from null, a single
// object, or an array of which only the first element is kept.
type Recommendation struct {
	Marker *Marker
}

func (r *Recommendation) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	r.Marker = nil
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '[' {
		var markers []Marker
		if err := json.Unmarshal(data, &markers); err != nil {
			return err
		}
		if len(markers) > 0 {
			r.Marker = &markers[0]
		}
		return nil
	}
	var marker Marker
	if err := json.Unmarshal(data, &marker); err != nil {
		return err
	}
	r.Marker = &marker
	return nil
}

func (r Recommendation) MarshalJSON() ([]byte, error) {
	if r.Marker == nil {
		return []byte("null"), nil
	}
	return json.Marshal(r.Marker)
}

// VenueMap is the layout returned by the map endpoint.
type VenueMap struct {
	Venue    Venue          `json:"venue"`
	Sections []Section      `json:"sections"`
	Cheapest Recommendation `json:"cheapest"`
	Best     Recommendation `json:"best"`
}

// Section looks up a section by id.
func (m VenueMap) Section(id SectionID) (Section, bool) {
	for _, s := range m.Sections {
		if s.Id == id {
			return s, true
		}
	}
	return Section{}, false
}

func (m VenueMap) HasSection(id SectionID) bool {
	_, ok := m.Section(id)
	return ok
}
