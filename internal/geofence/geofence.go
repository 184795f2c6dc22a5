// Package geofence decides whether a reported coordinate is close enough
// to the office to accept an attendance transition.
package geofence

import (
	"math"

	"github.com/protomem/attendance-tracker/internal/model"
)

const EarthRadiusMeters = 6_371_000.0

type Point struct {
	Lat float64
	Lng float64
}

// Coords is what the client reported. Nil fields mean "not sent".
type Coords struct {
	Lat      *float64
	Lng      *float64
	Accuracy *float64
}

type Config struct {
	Office       Point
	RadiusMeters float64
	Required     bool
}

type Decision struct {
	Allowed bool
	Reason  string

	// Distance is negative when no distance was computed.
	Distance float64
}

func allowed() Decision {
	return Decision{Allowed: true, Distance: -1}
}

func rejected(reason string) Decision {
	return Decision{Reason: reason, Distance: -1}
}

// Validate checks coords against the office circle. Bypass always wins,
// then a non-required fence lets everything through.
func Validate(coords Coords, office Point, radiusMeters float64, required, bypass bool) Decision {
	if bypass || !required {
		return allowed()
	}

	if coords.Lat == nil || coords.Lng == nil {
		return rejected(model.ReasonLocationRequired)
	}
	p := Point{Lat: *coords.Lat, Lng: *coords.Lng}
	if !validPoint(p) {
		return rejected(model.ReasonLocationRequired)
	}

	d := Distance(p, office)
	if d > radiusMeters {
		return Decision{Reason: model.ReasonOutsideRadius, Distance: d}
	}
	return Decision{Allowed: true, Distance: d}
}

// Distance is the haversine great-circle distance in meters.
func Distance(a, b Point) float64 {
	lat1, lat2 := radians(a.Lat), radians(b.Lat)
	dLat := lat2 - lat1
	dLng := radians(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	h = math.Min(1, h)

	return 2 * EarthRadiusMeters * math.Asin(math.Sqrt(h))
}

type Validator struct {
	cfg Config
}

func New(cfg Config) *Validator {
	return &Validator{cfg: cfg}
}

func (v *Validator) Check(coords Coords, bypass bool) Decision {
	return Validate(coords, v.cfg.Office, v.cfg.RadiusMeters, v.cfg.Required, bypass)
}

func validPoint(p Point) bool {
	if !finite(p.Lat) || !finite(p.Lng) {
		return false
	}
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
