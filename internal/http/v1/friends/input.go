package friends

// FriendInput identifies the far side of a friend edge.
type FriendInput struct {
	FriendID string `path:"friendId" maxLength:"128" doc:"Account id of the friend" example:"user-456"`
}
