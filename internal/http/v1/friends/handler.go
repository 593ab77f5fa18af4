package friends

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/mapsnap/backend/internal/platform/auth"
	acctsvc "github.com/mapsnap/backend/internal/service/account"
)

// Register registers friend-graph endpoints. The caller's token UID is
// always the near side of the edge.
func Register(api huma.API, svc acctsvc.Service) {
	huma.Register(api, huma.Operation{
		OperationID: "add-friend",
		Method:      http.MethodPut,
		Path:        "/account/friends/{friendId}",
		Summary:     "Add a friend",
		Description: "Adds the forward edge and best-effort adds the reverse edge. The response reports whether the reverse edge committed; an asymmetric edge is degraded state, not failure.",
		Tags:        []string{"Friends"},
		Security: []map[string][]string{
			{"bearerAuth": {}},
		},
	}, func(ctx context.Context, input *FriendInput) (*FriendEdgeOutput, error) {
		user := auth.UserFromContext(ctx)

		result, err := svc.AddFriend(ctx, user.UID, input.FriendID)
		if err != nil {
			return nil, mapServiceError(err)
		}
		out := &FriendEdgeOutput{}
		out.Body.FriendID = input.FriendID
		out.Body.Symmetric = result.Symmetric()
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "remove-friend",
		Method:      http.MethodDelete,
		Path:        "/account/friends/{friendId}",
		Summary:     "Remove a friend",
		Description: "Removes the forward edge and best-effort removes the reverse edge.",
		Tags:        []string{"Friends"},
		Security: []map[string][]string{
			{"bearerAuth": {}},
		},
	}, func(ctx context.Context, input *FriendInput) (*FriendEdgeOutput, error) {
		user := auth.UserFromContext(ctx)

		result, err := svc.RemoveFriend(ctx, user.UID, input.FriendID)
		if err != nil {
			return nil, mapServiceError(err)
		}
		out := &FriendEdgeOutput{}
		out.Body.FriendID = input.FriendID
		out.Body.Symmetric = result.Symmetric()
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "is-friend",
		Method:      http.MethodGet,
		Path:        "/account/friends/{friendId}",
		Summary:     "Check a friend edge",
		Description: "Reports whether the target is in the caller's friend set. The answer reflects the caller's side of the edge only.",
		Tags:        []string{"Friends"},
		Security: []map[string][]string{
			{"bearerAuth": {}},
		},
	}, func(ctx context.Context, input *FriendInput) (*IsFriendOutput, error) {
		user := auth.UserFromContext(ctx)

		isFriend, err := svc.IsFriend(ctx, user.UID, input.FriendID)
		if err != nil {
			return nil, mapServiceError(err)
		}
		out := &IsFriendOutput{}
		out.Body.FriendID = input.FriendID
		out.Body.Friend = isFriend
		return out, nil
	})
}

func mapServiceError(err error) error {
	switch {
	case errors.Is(err, acctsvc.ErrNotFound):
		return huma.Error404NotFound("no such account")
	case errors.Is(err, acctsvc.ErrSelfFriend):
		return huma.Error422UnprocessableEntity("cannot befriend yourself")
	case errors.Is(err, acctsvc.ErrBlankID):
		return huma.Error422UnprocessableEntity("identifier must not be blank")
	case errors.Is(err, acctsvc.ErrCorrupt):
		return huma.Error500InternalServerError("account data integrity error")
	default:
		return huma.Error500InternalServerError("internal error")
	}
}
