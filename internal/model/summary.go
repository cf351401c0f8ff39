package model

// RankSummary carries the aggregate counts for one seating tier of one
// event.  Price is the full per-seat price (event base + rank delta).
// Remains is always derived from live reservation state, never stored.
type RankSummary struct {
	Total   int   `json:"total"`
	Remains int   `json:"remains"`
	Price   int64 `json:"price"`
}

// EventSummary is an event with its aggregate seat counts.
type EventSummary struct {
	ID      int64                   `json:"id"`
	Title   string                  `json:"title"`
	Price   int64                   `json:"price"`
	Public  bool                    `json:"public"`
	Closed  bool                    `json:"closed"`
	Total   int                     `json:"total"`
	Remains int                     `json:"remains"`
	Sheets  map[string]*RankSummary `json:"sheets"`
}

// SeatDetail is the per-seat state inside an event detail response.
// ReservedAt is epoch seconds; it is zero (and omitted) for free seats.
// Mine is set only when the seat is held by the requesting user.
type SeatDetail struct {
	Num        int64 `json:"num"`
	Reserved   bool  `json:"reserved,omitempty"`
	ReservedAt int64 `json:"reserved_at,omitempty"`
	Mine       bool  `json:"mine,omitempty"`
}

// RankDetail extends RankSummary with the per-seat breakdown.
type RankDetail struct {
	Total   int          `json:"total"`
	Remains int          `json:"remains"`
	Price   int64        `json:"price"`
	Detail  []SeatDetail `json:"detail"`
}

// EventDetail is the seat-level view of one event.
type EventDetail struct {
	ID      int64                  `json:"id"`
	Title   string                 `json:"title"`
	Price   int64                  `json:"price"`
	Public  bool                   `json:"public"`
	Closed  bool                   `json:"closed"`
	Total   int                    `json:"total"`
	Remains int                    `json:"remains"`
	Sheets  map[string]*RankDetail `json:"sheets"`
}

// SeatState is one row of the seat-level snapshot the aggregate queries
// return: a sheet joined against its active reservation.
type SeatState struct {
	Rank       string
	Num        int64
	Price      int64 // rank delta, without the event base price
	UserID     int64
	ReservedAt int64 // epoch seconds
}

// ReservationDigest is one entry of a user's recent reservation list.
// Timestamps are epoch seconds; CanceledAt is zero while active.
type ReservationDigest struct {
	ID         int64  `json:"id"`
	Event      Event  `json:"event"`
	SheetRank  string `json:"sheet_rank"`
	SheetNum   int64  `json:"sheet_num"`
	Price      int64  `json:"price"`
	ReservedAt int64  `json:"reserved_at"`
	CanceledAt int64  `json:"canceled_at,omitempty"`
}

// UserSummary is the "my page" view: the user's five most recent
// reservations, lifetime spend over active reservations, and the five
// events they touched most recently, each with full aggregates.
type UserSummary struct {
	ID                 int64               `json:"id"`
	Nickname           string              `json:"nickname"`
	RecentReservations []ReservationDigest `json:"recent_reservations"`
	TotalPrice         int64               `json:"total_price"`
	RecentEvents       []*EventSummary     `json:"recent_events"`
}
