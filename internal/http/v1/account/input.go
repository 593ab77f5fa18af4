package account

// AccountCreateInput for POST /account
type AccountCreateInput struct {
	Body struct {
		Username   string    `json:"username,omitempty"   maxLength:"30"  doc:"Display name; may be left blank and set later" example:"alice"`
		Birthday   string    `json:"birthday,omitempty"   maxLength:"30"  doc:"Birthday display attribute"  example:"1999-04-01"`
		PictureRef string    `json:"pictureRef,omitempty" maxLength:"500" doc:"Profile picture reference"`
		Private    bool      `json:"private,omitempty"                    doc:"Start hidden from the public map" example:"false"`
		Location   *Location `json:"location,omitempty"                   doc:"Initial location"`
	}
}

// AccountGetInput for GET /account (no body needed)
type AccountGetInput struct{}

// AccountEditInput for PATCH /account. Blank fields keep current values.
type AccountEditInput struct {
	Body struct {
		Username   string    `json:"username,omitempty"   maxLength:"30"  doc:"New display name; blank keeps the current one" example:"alice"`
		Birthday   string    `json:"birthday,omitempty"   maxLength:"30"  doc:"New birthday; blank keeps the current one"`
		PictureRef string    `json:"pictureRef,omitempty" maxLength:"500" doc:"New picture reference; blank keeps the current one"`
		Location   *Location `json:"location,omitempty"                   doc:"New location; ignored unless valid"`
	}
}

// AccountDeleteInput for DELETE /account (no body needed)
type AccountDeleteInput struct{}

// PrivacyToggleInput for POST /account/privacy/toggle (no body needed)
type PrivacyToggleInput struct{}

// RegisteredInput for GET /accounts/{id}/registered
type RegisteredInput struct {
	ID string `path:"id" maxLength:"128" doc:"Account identifier" example:"user-123"`
}

// UsernameAvailableInput for GET /usernames/{username}/available
type UsernameAvailableInput struct {
	Username string `path:"username" maxLength:"30" doc:"Username to probe" example:"alice"`
}
