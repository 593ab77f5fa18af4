package snaps

// SnapInput identifies a snap by its opaque id.
type SnapInput struct {
	SnapID string `path:"snapId" maxLength:"128" doc:"Snap identifier" example:"snap-789"`
}
