package entity

// LatLng is a WGS84 coordinate pair.
type LatLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// OpenState is the tri-state open/closed signal derived from provider hours.
type OpenState int

const (
	// OpenUnknown means the provider reported no current-hours data.
	OpenUnknown OpenState = iota
	OpenNow
	ClosedNow
)

// Place is the provider-agnostic representation of one search result.
// Optional fields are pointers so an absent value renders differently from
// a zero one.
type Place struct {
	DisplayName      string    `json:"display_name"`
	FormattedAddress string    `json:"formatted_address"`
	Location         LatLng    `json:"location"`
	Rating           *float64  `json:"rating,omitempty"`
	RatingCount      int       `json:"rating_count,omitempty"`
	PrimaryType      string    `json:"primary_type,omitempty"`
	Open             OpenState `json:"open"`
	PhotoRef         string    `json:"photo_ref,omitempty"`
	Phone            string    `json:"phone,omitempty"`
	Website          string    `json:"website,omitempty"`
	MapsURI          string    `json:"maps_uri,omitempty"`
	WeekdayHours     []string  `json:"weekday_hours,omitempty"`
}
