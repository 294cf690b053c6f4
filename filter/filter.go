// Package filter holds the user's listing constraints and translates them
// into the query string understood by the listings endpoint.
package filter

import (
	"net/url"
	"strconv"
	"strings"

	"concertcloud-cli/model"
)

const (
	MinQuantity = 1
	MaxQuantity = 8
)

type Sort string

const (
	SortBest     Sort = "best"
	SortCheapest Sort = "cheapest"
)

// ParseSort maps free text onto a Sort, falling back to best.
func ParseSort(value string) Sort {
	if strings.EqualFold(strings.TrimSpace(value), string(SortCheapest)) {
		return SortCheapest
	}
	return SortBest
}

// Other returns the opposite ordering.
func (s Sort) Other() Sort {
	if s == SortCheapest {
		return SortBest
	}
	return SortCheapest
}

// State is the complete set of user-chosen constraints for one session.
type State struct {
	EventID      int
	Quantity     int
	MaxPrice     *float64
	VerifiedOnly bool
	Together     bool
	Sort         Sort
	SectionID    *model.SectionID
}

func Defaults() State {
	return State{
		EventID:  1,
		Quantity: 1,
		Sort:     SortBest,
	}
}

func (s State) WithEventID(id int) State {
	if id < 1 {
		id = 1
	}
	s.EventID = id
	return s
}

func (s State) WithQuantity(qty int) State {
	s.Quantity = clampQuantity(qty)
	return s
}

func clampQuantity(qty int) int {
	if qty < MinQuantity {
		return MinQuantity
	}
	if qty > MaxQuantity {
		return MaxQuantity
	}
	return qty
}

// ParseMaxPrice reads a price typed by the user. Empty, malformed and
// non-positive input all mean "no bound".
func ParseMaxPrice(text string) *float64 {
	text = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(text), "$"))
	if text == "" {
		return nil
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || v <= 0 {
		return nil
	}
	return &v
}

// FormatPrice renders a price in its shortest decimal form.
func FormatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ClearSection drops the section filter and leaves everything else as is.
func ClearSection(s State) State {
	s.SectionID = nil
	return s
}

// ToggleSection returns nil when clicked is already the current section and
// clicked otherwise.
func ToggleSection(current *model.SectionID, clicked model.SectionID) *model.SectionID {
	if current != nil && *current == clicked {
		return nil
	}
	id := clicked
	return &id
}

// Query is an ordered list of query parameters.
type Query struct {
	pairs [][2]string
}

func (q *Query) set(key, value string) {
	q.pairs = append(q.pairs, [2]string{key, value})
}

func (q Query) Get(key string) string {
	for _, p := range q.pairs {
		if p[0] == key {
			return p[1]
		}
	}
	return ""
}

func (q Query) Has(key string) bool {
	for _, p := range q.pairs {
		if p[0] == key {
			return true
		}
	}
	return false
}

func (q Query) Keys() []string {
	keys := make([]string, 0, len(q.pairs))
	for _, p := range q.pairs {
		keys = append(keys, p[0])
	}
	return keys
}

func (q Query) Values() url.Values {
	v := url.Values{}
	for _, p := range q.pairs {
		v.Add(p[0], p[1])
	}
	return v
}

// Encode renders the query in key order of insertion. url.Values.Encode
// sorts keys, which would reorder sort/qty.
func (q Query) Encode() string {
	var b strings.Builder
	for i, p := range q.pairs {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p[0]))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p[1]))
	}
	return b.String()
}

func (q Query) String() string {
	return q.Encode()
}

// ToQuery serializes the state for the listings endpoint.
func ToQuery(s State) Query {
	var q Query
	sort := s.Sort
	if sort != SortCheapest {
		sort = SortBest
	}
	q.set("sort", string(sort))

	qty := s.Quantity
	if qty < MinQuantity {
		qty = MinQuantity
	}
	q.set("qty", strconv.Itoa(qty))

	if s.MaxPrice != nil {
		q.set("max_price", FormatPrice(*s.MaxPrice))
	}
	if s.VerifiedOnly {
		q.set("verified_only", "true")
	}
	if s.SectionID != nil {
		q.set("section_id", s.SectionID.String())
	}
	if s.Together {
		q.set("together", "true")
	}
	return q
}

// ToQueryString is ToQuery(s).Encode().
func ToQueryString(s State) string {
	return ToQuery(s).Encode()
}
