package snaps

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/mapsnap/backend/internal/platform/auth"
	acctsvc "github.com/mapsnap/backend/internal/service/account"
)

// Register registers the owned-snap and starred-snap set endpoints. Snap
// ids are opaque references into the external snap store; membership here
// carries no referential check.
func Register(api huma.API, svc acctsvc.Service) {
	registerSet(api, "snap", "/account/snaps/{snapId}", "Snaps", svc.AddSnap, svc.RemoveSnap)
	registerSet(api, "starred-snap", "/account/starred/{snapId}", "Snaps", svc.StarSnap, svc.UnstarSnap)
}

type setOp func(ctx context.Context, ownerID, snapID string) error

func registerSet(api huma.API, name, path, tag string, add, remove setOp) {
	huma.Register(api, huma.Operation{
		OperationID: "add-" + name,
		Method:      http.MethodPut,
		Path:        path,
		Summary:     "Add a " + name,
		Description: "Idempotent set add; repeating the call leaves the set unchanged.",
		Tags:        []string{tag},
		Security: []map[string][]string{
			{"bearerAuth": {}},
		},
	}, func(ctx context.Context, input *SnapInput) (*SnapOutput, error) {
		user := auth.UserFromContext(ctx)

		if err := add(ctx, user.UID, input.SnapID); err != nil {
			return nil, mapServiceError(err)
		}
		out := &SnapOutput{}
		out.Body.SnapID = input.SnapID
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "remove-" + name,
		Method:      http.MethodDelete,
		Path:        path,
		Summary:     "Remove a " + name,
		Description: "Idempotent set remove; removing an absent id is a no-op success.",
		Tags:        []string{tag},
		Security: []map[string][]string{
			{"bearerAuth": {}},
		},
	}, func(ctx context.Context, input *SnapInput) (*SnapOutput, error) {
		user := auth.UserFromContext(ctx)

		if err := remove(ctx, user.UID, input.SnapID); err != nil {
			return nil, mapServiceError(err)
		}
		out := &SnapOutput{}
		out.Body.SnapID = input.SnapID
		return out, nil
	})
}

func mapServiceError(err error) error {
	switch {
	case errors.Is(err, acctsvc.ErrNotFound):
		return huma.Error404NotFound("account not found")
	case errors.Is(err, acctsvc.ErrBlankID):
		return huma.Error422UnprocessableEntity("identifier must not be blank")
	case errors.Is(err, acctsvc.ErrCorrupt):
		return huma.Error500InternalServerError("account data integrity error")
	default:
		return huma.Error500InternalServerError("internal error")
	}
}
