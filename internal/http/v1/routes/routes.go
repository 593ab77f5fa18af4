package routes

import (
	"net/url"

	"github.com/danielgtaylor/huma/v2"

	accounthandler "github.com/mapsnap/backend/internal/http/v1/account"
	friendshandler "github.com/mapsnap/backend/internal/http/v1/friends"
	placeshandler "github.com/mapsnap/backend/internal/http/v1/places"
	snapshandler "github.com/mapsnap/backend/internal/http/v1/snaps"
	"github.com/mapsnap/backend/internal/platform/auth"
	acctsvc "github.com/mapsnap/backend/internal/service/account"
)

// Register wires all HTTP routes into the provided API router.
func Register(
	api huma.API,
	verifier auth.Verifier,
	accountService acctsvc.Service,
) {
	prefix := apiPrefix(api)

	// Apply auth middleware for protected endpoints
	api.UseMiddleware(auth.NewAuthMiddleware(api, verifier))

	accounthandler.Register(api, accountService)
	friendshandler.Register(api, accountService)
	snapshandler.Register(api, accountService)
	placeshandler.Register(api, accountService, prefix)
}

func apiPrefix(api huma.API) string {
	for _, s := range api.OpenAPI().Servers {
		if u, err := url.Parse(s.URL); err == nil && u.Path != "" {
			return u.Path
		}
	}
	return ""
}
