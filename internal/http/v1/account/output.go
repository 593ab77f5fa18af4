package account

// AccountCreateOutput for POST /account (201 Created)
type AccountCreateOutput struct {
	Location string `header:"Location" doc:"URL of created account"`
	Body     Account
}

// AccountGetOutput for GET /account
type AccountGetOutput struct {
	Body Account
}

// AccountEditOutput for PATCH /account
type AccountEditOutput struct {
	Body Account
}

// PrivacyToggleOutput for POST /account/privacy/toggle
type PrivacyToggleOutput struct {
	Body struct {
		Private bool `json:"private" doc:"New value of the privacy flag" example:"true"`
	}
}

// RegisteredOutput for GET /accounts/{id}/registered
type RegisteredOutput struct {
	Body struct {
		Registered bool `json:"registered" doc:"Whether the id has a record with a non-blank username" example:"true"`
	}
}

// UsernameAvailableOutput for GET /usernames/{username}/available
type UsernameAvailableOutput struct {
	Body struct {
		Available bool `json:"available" doc:"Whether the username is free to claim" example:"true"`
	}
}
