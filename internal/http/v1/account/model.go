package account

import (
	"github.com/mapsnap/backend/internal/platform/timeutil"
	acctsvc "github.com/mapsnap/backend/internal/service/account"
)

// Location represents a coordinate with a display name.
type Location struct {
	Latitude  float64 `json:"latitude"  doc:"Latitude in degrees"   example:"46.5191"`
	Longitude float64 `json:"longitude" doc:"Longitude in degrees"  example:"6.5668"`
	Name      string  `json:"name"      doc:"Display name"          example:"EPFL"`
}

// Account represents an account response.
type Account struct {
	ID             string        `json:"id"             doc:"Account identifier"               example:"user-123"`
	Username       string        `json:"username"       doc:"Display name, blank until registration completes" example:"alice"`
	Birthday       string        `json:"birthday"       doc:"Birthday display attribute"       example:"1999-04-01"`
	PictureRef     string        `json:"pictureRef"     doc:"Profile picture reference"        example:"pictures/user-123.jpg"`
	FriendIDs      []string      `json:"friendIds"      doc:"Account ids of friends"`
	SnapIDs        []string      `json:"snapIds"        doc:"Owned snap ids"`
	StarredSnapIDs []string      `json:"starredSnapIds" doc:"Starred snap ids"`
	Private        bool          `json:"private"        doc:"Whether the account is hidden from the public map" example:"false"`
	Location       *Location     `json:"location,omitempty" doc:"Last known location, omitted when unset"`
	CreatedAt      timeutil.Time `json:"createdAt"      doc:"Creation timestamp"    example:"2024-01-15T10:30:00.000Z"`
	UpdatedAt      timeutil.Time `json:"updatedAt"      doc:"Last update timestamp" example:"2024-01-15T10:30:00.000Z"`
}

func toHTTPAccount(a *acctsvc.Account) Account {
	out := Account{
		ID:             a.ID,
		Username:       a.Username,
		Birthday:       a.Birthday,
		PictureRef:     a.PictureRef,
		FriendIDs:      a.FriendIDs,
		SnapIDs:        a.SnapIDs,
		StarredSnapIDs: a.StarredSnapIDs,
		Private:        a.Private,
		CreatedAt:      timeutil.Time{Time: a.CreatedAt},
		UpdatedAt:      timeutil.Time{Time: a.UpdatedAt},
	}
	if a.Location.Valid() {
		out.Location = &Location{
			Latitude:  a.Location.Latitude,
			Longitude: a.Location.Longitude,
			Name:      a.Location.Name,
		}
	}
	return out
}

func toServiceLocation(l *Location) acctsvc.Location {
	if l == nil {
		return acctsvc.Location{}
	}
	return acctsvc.Location{
		Latitude:  l.Latitude,
		Longitude: l.Longitude,
		Name:      l.Name,
	}
}
