package places

import (
	acctsvc "github.com/mapsnap/backend/internal/service/account"
)

// Place represents a public location index entry.
type Place struct {
	OwnerID   string  `json:"ownerId"   doc:"Account id owning the entry" example:"user-123"`
	Username  string  `json:"username"  doc:"Username snapshot at last projection" example:"alice"`
	Latitude  float64 `json:"latitude"  doc:"Latitude in degrees"  example:"46.5191"`
	Longitude float64 `json:"longitude" doc:"Longitude in degrees" example:"6.5668"`
	Name      string  `json:"name"      doc:"Location display name" example:"EPFL"`
}

func toHTTPPlaces(in []acctsvc.Place) []Place {
	out := make([]Place, 0, len(in))
	for _, p := range in {
		out = append(out, Place{
			OwnerID:   p.OwnerID,
			Username:  p.Username,
			Latitude:  p.Location.Latitude,
			Longitude: p.Location.Longitude,
			Name:      p.Location.Name,
		})
	}
	return out
}
