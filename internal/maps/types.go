package maps

// LatLng is a geographic coordinate as the provider reports it.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// PlaceQuery is one place-search request. A non-empty Query selects
// the provider's text search endpoint; otherwise the nearby search
// endpoint is used with Type/Keyword.
type PlaceQuery struct {
	Query   string
	Type    string
	Keyword string
	Lat     float64
	Lng     float64
	Radius  int
}

// PlaceResult is one place the provider returned. Ephemeral: consumed
// by the search aggregator, never persisted.
type PlaceResult struct {
	PlaceID     string   `json:"id"`
	Name        string   `json:"name"`
	Location    LatLng   `json:"location"`
	Address     string   `json:"address,omitempty"`
	Types       []string `json:"types"`
	Rating      float64  `json:"rating,omitempty"`
	RatingCount int      `json:"user_ratings_total,omitempty"`
}

// TextValue is the provider's paired human/machine quantity.
type TextValue struct {
	Text  string `json:"text"`
	Value int    `json:"value"`
}

// Step is one instruction of a directions leg. Instructions carry the
// provider's HTML markup; presentation layers strip it.
type Step struct {
	TravelMode   string    `json:"travel_mode"`
	Distance     TextValue `json:"distance"`
	Duration     TextValue `json:"duration"`
	Instructions string    `json:"html_instructions"`
}

// Leg is one origin-to-destination segment of a route.
type Leg struct {
	Distance     TextValue `json:"distance"`
	Duration     TextValue `json:"duration"`
	StartAddress string    `json:"start_address"`
	EndAddress   string    `json:"end_address"`
	Steps        []Step    `json:"steps"`
}

// Bounds is the viewport covering a route.
type Bounds struct {
	Northeast LatLng `json:"northeast"`
	Southwest LatLng `json:"southwest"`
}

// Polyline wraps the provider's encoded overview polyline.
type Polyline struct {
	Points string `json:"points"`
}

// Route is one turn-by-turn route from the directions endpoint.
type Route struct {
	Summary          string   `json:"summary"`
	Legs             []Leg    `json:"legs"`
	OverviewPolyline Polyline `json:"overview_polyline"`
	Bounds           Bounds   `json:"bounds"`
	Warnings         []string `json:"warnings"`
}

// provider response envelopes

type placesResponse struct {
	Status       string       `json:"status"`
	ErrorMessage string       `json:"error_message"`
	Results      []placeEntry `json:"results"`
}

type placeEntry struct {
	PlaceID  string `json:"place_id"`
	Name     string `json:"name"`
	Vicinity string `json:"vicinity"`
	Geometry struct {
		Location LatLng `json:"location"`
	} `json:"geometry"`
	Types            []string `json:"types"`
	Rating           float64  `json:"rating"`
	UserRatingsTotal int      `json:"user_ratings_total"`
}

type directionsResponse struct {
	Status       string  `json:"status"`
	ErrorMessage string  `json:"error_message"`
	Routes       []Route `json:"routes"`
}
