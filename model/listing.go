package model

// Listing is one purchasable ticket returned by the listings endpoint.
type Listing struct {
	Id         int64      `json:"id"`
	EventId    int        `json:"event_id"`
	Section    *string    `json:"section"`
	SectionId  *SectionID `json:"section_id"`
	Row        *string    `json:"row"`
	Seat       *string    `json:"seat"`
	SeatNum    *int       `json:"seat_num"`
	Price      float64    `json:"price"`
	IsVerified bool       `json:"is_verified"`
}

// SectionLabel returns the free-text section label, or "" when absent.
func (l Listing) SectionLabel() string {
	return deref(l.Section)
}

func (l Listing) RowLabel() string {
	return deref(l.Row)
}

func (l Listing) SeatLabel() string {
	return deref(l.Seat)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
