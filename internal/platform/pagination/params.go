package pagination

const defaultLimit = 20

// Params is embedded into huma input structs of listing operations to
// pick up the shared cursor and limit query parameters.
type Params struct {
	Cursor string `query:"cursor" doc:"Opaque pagination cursor from previous response"`
	Limit  int    `query:"limit"  doc:"Maximum items per page"                          default:"20" minimum:"1" maximum:"100"`
}

// DefaultLimit returns the requested page size, or 20 when unset.
func (p Params) DefaultLimit() int {
	if p.Limit <= 0 {
		return defaultLimit
	}
	return p.Limit
}
