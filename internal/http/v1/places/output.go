package places

// ListOutput for GET /places
type ListOutput struct {
	Link string `header:"Link" doc:"RFC 8288 pagination links"`
	Body struct {
		Places     []Place `json:"places"     doc:"Page of public location entries"`
		Total      int     `json:"total"      doc:"Total entries in the index" example:"42"`
		NextCursor string  `json:"nextCursor,omitempty" doc:"Cursor for the next page"`
	}
}
