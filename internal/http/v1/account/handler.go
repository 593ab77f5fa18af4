package account

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/mapsnap/backend/internal/platform/auth"
	acctsvc "github.com/mapsnap/backend/internal/service/account"
)

// Register registers account endpoints. Every mutation is scoped to the
// authenticated user's own account: the token UID is the account id.
func Register(api huma.API, svc acctsvc.Service) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-account",
		Method:        http.MethodPost,
		Path:          "/account",
		Summary:       "Create own account",
		Description:   "Creates the account record for the authenticated user. The username may be left blank and claimed later.",
		Tags:          []string{"Account"},
		DefaultStatus: http.StatusCreated,
		Security: []map[string][]string{
			{"bearerAuth": {}},
		},
	}, func(ctx context.Context, input *AccountCreateInput) (*AccountCreateOutput, error) {
		user := auth.UserFromContext(ctx)

		acct, err := svc.Create(ctx, user.UID, acctsvc.CreateParams{
			Username:   input.Body.Username,
			Birthday:   input.Body.Birthday,
			PictureRef: input.Body.PictureRef,
			Private:    input.Body.Private,
			Location:   toServiceLocation(input.Body.Location),
		})
		if err != nil {
			return nil, mapServiceError(err)
		}
		return &AccountCreateOutput{
			Location: "/v1/account",
			Body:     toHTTPAccount(acct),
		}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-account",
		Method:      http.MethodGet,
		Path:        "/account",
		Summary:     "Get own account",
		Tags:        []string{"Account"},
		Security: []map[string][]string{
			{"bearerAuth": {}},
		},
	}, func(ctx context.Context, _ *AccountGetInput) (*AccountGetOutput, error) {
		user := auth.UserFromContext(ctx)

		acct, err := svc.Get(ctx, user.UID)
		if err != nil {
			return nil, mapServiceError(err)
		}
		return &AccountGetOutput{Body: toHTTPAccount(acct)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "edit-account",
		Method:      http.MethodPatch,
		Path:        "/account",
		Summary:     "Edit own account",
		Description: "Updates fields on the account. Blank fields keep current values; an invalid location keeps the current one. A changed username re-runs the uniqueness check.",
		Tags:        []string{"Account"},
		Security: []map[string][]string{
			{"bearerAuth": {}},
		},
	}, func(ctx context.Context, input *AccountEditInput) (*AccountEditOutput, error) {
		user := auth.UserFromContext(ctx)

		acct, err := svc.Edit(ctx, user.UID, acctsvc.EditParams{
			Username:   input.Body.Username,
			Birthday:   input.Body.Birthday,
			PictureRef: input.Body.PictureRef,
			Location:   toServiceLocation(input.Body.Location),
		})
		if err != nil {
			return nil, mapServiceError(err)
		}
		return &AccountEditOutput{Body: toHTTPAccount(acct)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "delete-account",
		Method:        http.MethodDelete,
		Path:          "/account",
		Summary:       "Delete own account",
		Description:   "Permanently deletes the account record and retracts any public map entry.",
		Tags:          []string{"Account"},
		DefaultStatus: http.StatusNoContent,
		Security: []map[string][]string{
			{"bearerAuth": {}},
		},
	}, func(ctx context.Context, _ *AccountDeleteInput) (*struct{}, error) {
		user := auth.UserFromContext(ctx)

		if err := svc.Delete(ctx, user.UID); err != nil {
			return nil, mapServiceError(err)
		}
		return nil, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "toggle-privacy",
		Method:      http.MethodPost,
		Path:        "/account/privacy/toggle",
		Summary:     "Toggle account privacy",
		Description: "Flips the privacy flag and returns the new value. Leaving private mode requires a valid location.",
		Tags:        []string{"Account"},
		Security: []map[string][]string{
			{"bearerAuth": {}},
		},
	}, func(ctx context.Context, _ *PrivacyToggleInput) (*PrivacyToggleOutput, error) {
		user := auth.UserFromContext(ctx)

		private, err := svc.TogglePrivacy(ctx, user.UID)
		if err != nil {
			return nil, mapServiceError(err)
		}
		out := &PrivacyToggleOutput{}
		out.Body.Private = private
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "account-registered",
		Method:      http.MethodGet,
		Path:        "/accounts/{id}/registered",
		Summary:     "Check whether an account id is registered",
		Description: "True only when the id has a record with a non-blank username.",
		Tags:        []string{"Account"},
	}, func(ctx context.Context, input *RegisteredInput) (*RegisteredOutput, error) {
		registered, err := svc.Exists(ctx, input.ID)
		if err != nil {
			return nil, mapServiceError(err)
		}
		out := &RegisteredOutput{}
		out.Body.Registered = registered
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "username-available",
		Method:      http.MethodGet,
		Path:        "/usernames/{username}/available",
		Summary:     "Check username availability",
		Description: "Best-effort availability probe against the public-identity collection; two concurrent claims can both pass before either writes.",
		Tags:        []string{"Account"},
		Security: []map[string][]string{
			{"bearerAuth": {}},
		},
	}, func(ctx context.Context, input *UsernameAvailableInput) (*UsernameAvailableOutput, error) {
		user := auth.UserFromContext(ctx)

		taken, err := svc.IsUsernameTaken(ctx, input.Username, user.UID)
		if err != nil {
			return nil, mapServiceError(err)
		}
		out := &UsernameAvailableOutput{}
		out.Body.Available = !taken
		return out, nil
	})
}

func mapServiceError(err error) error {
	switch {
	case errors.Is(err, acctsvc.ErrNotFound):
		return huma.Error404NotFound("account not found")
	case errors.Is(err, acctsvc.ErrAlreadyExists):
		return huma.Error409Conflict("account already exists")
	case errors.Is(err, acctsvc.ErrUsernameTaken):
		return huma.Error409Conflict("username already taken")
	case errors.Is(err, acctsvc.ErrInvalidLocation):
		return huma.Error422UnprocessableEntity("a valid location is required to leave private mode")
	case errors.Is(err, acctsvc.ErrBlankID):
		return huma.Error422UnprocessableEntity("identifier must not be blank")
	case errors.Is(err, acctsvc.ErrCorrupt):
		return huma.Error500InternalServerError("account data integrity error")
	default:
		return huma.Error500InternalServerError("internal error")
	}
}
