package snaps

// SnapOutput echoes the mutated set element.
type SnapOutput struct {
	Body struct {
		SnapID string `json:"snapId" doc:"Snap identifier" example:"snap-789"`
	}
}
