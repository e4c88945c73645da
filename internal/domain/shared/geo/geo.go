package geo

// Coordinates is the lat/lng pair clients submit and render.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (c Coordinates) Zero() bool {
	return c.Lat == 0 && c.Lng == 0
}

// Point is a GeoJSON point, coordinates ordered [lng, lat] as mongo expects
// for 2dsphere queries.
type Point struct {
	Type        string    `json:"type" bson:"type"`
	Coordinates []float64 `json:"coordinates" bson:"coordinates"`
}

func NewPoint(lat, lng float64) Point {
	return Point{Type: "Point", Coordinates: []float64{lng, lat}}
}

func (p Point) Zero() bool {
	return len(p.Coordinates) != 2
}

func (p Point) LatLng() Coordinates {
	if p.Zero() {
		return Coordinates{}
	}
	return Coordinates{Lat: p.Coordinates[1], Lng: p.Coordinates[0]}
}
