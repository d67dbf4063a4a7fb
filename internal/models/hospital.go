package models

// Category is the derived specialty class of a hospital
type Category string

const (
	CategoryGeneral Category = "general"
	CategorySpecial Category = "special"
)

// Hospital represents one currently operating veterinary business, with its display
// fields and WGS-84 coordinates. Projected grid coordinates are kept for storage only.
type Hospital struct {
	ID         int64    `json:"id,omitempty"`
	Name       string   `json:"name"`
	Phone      string   `json:"phone"`
	Address    string   `json:"address"`
	ProjectedX float64  `json:"-"`
	ProjectedY float64  `json:"-"`
	Latitude   float64  `json:"lat"`
	Longitude  float64  `json:"lng"`
	Category   Category `json:"category"`
	IsSpecial  bool     `json:"isSpecial"`
}

// Recommendation is a raw-registry keyword hit returned to chat collaborators
type Recommendation struct {
	Name             string `json:"name"`
	Address          string `json:"address"`
	Phone            string `json:"phone"`
	MapLink          string `json:"mapLink"`
	LikelyAlwaysOpen bool   `json:"likelyAlwaysOpen"`
}

// NearbyHospital is a hospital with its distance from a query point
type NearbyHospital struct {
	Hospital
	DistanceMeters float64 `json:"distanceMeters"`
}
