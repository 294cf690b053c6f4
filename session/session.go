// Package session owns the state shown by the front end: the current filters,
// the loaded datasets and the per-resource loading and error flags. Every
// change goes through a named transition so the state can be driven and
// inspected without a terminal.
package session

import (
	"context"
	"errors"
	"fmt"

	"concertcloud-cli/filter"
	"concertcloud-cli/model"
	"concertcloud-cli/service"
)

// Resource names one of the two independently fetched datasets.
type Resource int

const (
	Listings Resource = iota
	Map
)

func (r Resource) String() string {
	switch r {
	case Listings:
		return "Listings"
	case Map:
		return "Map"
	default:
		return fmt.Sprintf("Resource(%d)", int(r))
	}
}

// Fetcher is the remote API. *service.Client implements it.
type Fetcher interface {
	GetListings(ctx context.Context, eventID int, query filter.Query) ([]model.Listing, error)
	GetVenueMap(ctx context.Context, eventID int) (model.VenueMap, error)
}

// Request describes one outbound fetch.
type Request struct {
	Resource Resource
	EventID  int
	Query    filter.Query
}

// Result is the outcome of executing a Request.
type Result struct {
	Request  Request
	Listings []model.Listing
	Map      model.VenueMap
	Err      error
}

// State is the whole front-end state.
type State struct {
	Filters         filter.State
	Listings        []model.Listing
	Map             *model.VenueMap
	LoadingListings bool
	LoadingMap      bool
	Err             string

	started bool
}

// New returns a session with the given filters and nothing loaded.
func New(filters filter.State) State {
	return State{
		Filters:  filters,
		Listings: []model.Listing{},
	}
}

// Start returns the initial listings and map fetches. Only the first call on
// a session returns them.
func (s State) Start() (State, []Request) {
	if s.started {
		return s, nil
	}
	s.started = true
	return s, []Request{s.listingsRequest(), s.mapRequest()}
}

func (s State) Started() bool {
	return s.started
}

func (s State) Loading() bool {
	return s.LoadingListings || s.LoadingMap
}

// Begin marks a fetch of r as in flight.
func (s State) Begin(r Resource) State {
	switch r {
	case Listings:
		s.LoadingListings = true
	case Map:
		s.LoadingMap = true
	}
	s.Err = ""
	return s
}

// ListingsLoaded applies a finished listings fetch.
func (s State) ListingsLoaded(items []model.Listing, err error) State {
	s.LoadingListings = false
	if err != nil {
		s.Err = ErrorMessage(Listings, err)
		s.Listings = []model.Listing{}
		return s
	}
	if items == nil {
		items = []model.Listing{}
	}
	s.Listings = items
	s.Err = ""
	return s
}

// MapLoaded applies a finished map fetch. A selected section that the new
// map no longer has is dropped.
func (s State) MapLoaded(venueMap model.VenueMap, err error) State {
	s.LoadingMap = false
	if err != nil {
		s.Err = ErrorMessage(Map, err)
		s.Map = nil
		return s
	}
	s.Map = &venueMap
	s.Err = ""
	if s.Filters.SectionID != nil && !venueMap.HasSection(*s.Filters.SectionID) {
		s.Filters = filter.ClearSection(s.Filters)
	}
	return s
}

// Apply routes a Result to the matching transition.
func (s State) Apply(res Result) State {
	switch res.Request.Resource {
	case Listings:
		return s.ListingsLoaded(res.Listings, res.Err)
	case Map:
		return s.MapLoaded(res.Map, res.Err)
	}
	return s
}

// SetEventID switches events. The loaded map and the section filter belong
// to the old event and are dropped.
func (s State) SetEventID(id int) State {
	next := s.Filters.WithEventID(id)
	if next.EventID != s.Filters.EventID {
		next = filter.ClearSection(next)
		s.Map = nil
	}
	s.Filters = next
	return s
}

func (s State) SetQuantity(qty int) State {
	s.Filters = s.Filters.WithQuantity(qty)
	return s
}

func (s State) SetMaxPrice(price *float64) State {
	s.Filters.MaxPrice = price
	return s
}

func (s State) SetVerifiedOnly(v bool) State {
	s.Filters.VerifiedOnly = v
	return s
}

func (s State) SetTogether(v bool) State {
	s.Filters.Together = v
	return s
}

func (s State) SetSort(sort filter.Sort) State {
	s.Filters.Sort = sort
	return s
}

func (s State) ToggleSection(id model.SectionID) State {
	s.Filters.SectionID = filter.ToggleSection(s.Filters.SectionID, id)
	return s
}

func (s State) ClearSection() State {
	s.Filters = filter.ClearSection(s.Filters)
	return s
}

// ApplyFilters clears the section drill-down and re-queries listings.
func (s State) ApplyFilters() (State, Request) {
	s = s.ClearSection()
	return s, s.listingsRequest()
}

// ClickSection toggles a section and re-queries listings with it.
func (s State) ClickSection(id model.SectionID) (State, Request) {
	s = s.ToggleSection(id)
	return s, s.listingsRequest()
}

// ReloadListings re-queries listings with the filters as they are.
func (s State) ReloadListings() Request {
	return s.listingsRequest()
}

// ReloadMap re-fetches the venue map for the current event.
func (s State) ReloadMap() Request {
	return s.mapRequest()
}

func (s State) Query() filter.Query {
	return filter.ToQuery(s.Filters)
}

func (s State) listingsRequest() Request {
	return Request{Resource: Listings, EventID: s.Filters.EventID, Query: s.Query()}
}

func (s State) mapRequest() Request {
	return Request{Resource: Map, EventID: s.Filters.EventID}
}

// Execute performs req against f.
func Execute(ctx context.Context, f Fetcher, req Request) Result {
	res := Result{Request: req}
	switch req.Resource {
	case Listings:
		res.Listings, res.Err = f.GetListings(ctx, req.EventID, req.Query)
	case Map:
		res.Map, res.Err = f.GetVenueMap(ctx, req.EventID)
	default:
		res.Err = fmt.Errorf("unknown resource %v", req.Resource)
	}
	return res
}

// ErrorMessage formats a fetch failure as "<Resource> error: <detail>". HTTP
// failures use the status line.
func ErrorMessage(r Resource, err error) string {
	var apiErr *service.APIError
	if errors.As(err, &apiErr) {
		return fmt.Sprintf("%s error: %s", r, apiErr.Status)
	}
	return fmt.Sprintf("%s error: %v", r, err)
}
