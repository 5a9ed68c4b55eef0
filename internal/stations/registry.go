// Package stations holds the fixed registry of Jakarta's five DKI
// monitoring stations. Coordinates are used for presentation only; they
// never participate in the forecast computation itself.
package stations

import "sort"

// Jakarta city-center fallback, used for stations that appear in the
// historical data but are missing from the registry.
const (
	FallbackLatitude  = -6.2
	FallbackLongitude = 106.8
)

// Station is one monitoring station with its map position.
type Station struct {
	ID        string  `json:"station"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Registry is an immutable station-id → coordinates mapping.
type Registry struct {
	byID map[string]Station
}

// Default returns the registry of the five DKI stations.
func Default() *Registry {
	return New([]Station{
		{ID: "DKI1 (Bunderan HI)", Latitude: -6.193, Longitude: 106.820},
		{ID: "DKI2 (Kelapa Gading)", Latitude: -6.166, Longitude: 106.909},
		{ID: "DKI3 (Jagakarsa)", Latitude: -6.338, Longitude: 106.823},
		{ID: "DKI4 (Lubang Buaya)", Latitude: -6.293, Longitude: 106.894},
		{ID: "DKI5 (Kebon Jeruk)", Latitude: -6.200, Longitude: 106.770},
	})
}

// New builds a registry from a station list.
func New(list []Station) *Registry {
	byID := make(map[string]Station, len(list))
	for _, s := range list {
		byID[s.ID] = s
	}
	return &Registry{byID: byID}
}

// Coordinates returns a station's map position, falling back to the Jakarta
// city center for unknown stations.
func (r *Registry) Coordinates(id string) (lat, lon float64) {
	if s, ok := r.byID[id]; ok {
		return s.Latitude, s.Longitude
	}
	return FallbackLatitude, FallbackLongitude
}

// Contains reports whether the station is registered.
func (r *Registry) Contains(id string) bool {
	_, ok := r.byID[id]
	return ok
}

// IDs returns all registered station identifiers, sorted for stable output.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.byID))
	for id := range r.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// List returns all stations sorted by identifier.
func (r *Registry) List() []Station {
	list := make([]Station, 0, len(r.byID))
	for _, id := range r.IDs() {
		list = append(list, r.byID[id])
	}
	return list
}
