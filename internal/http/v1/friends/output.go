package friends

// FriendEdgeOutput reports the outcome of a friend-graph mutation.
type FriendEdgeOutput struct {
	Body struct {
		FriendID  string `json:"friendId"  doc:"Account id of the friend"                       example:"user-456"`
		Symmetric bool   `json:"symmetric" doc:"Whether the reverse edge also committed; false means the graph is asymmetric until reconciled" example:"true"`
	}
}

// IsFriendOutput for GET /account/friends/{friendId}
type IsFriendOutput struct {
	Body struct {
		FriendID string `json:"friendId" doc:"Account id of the friend" example:"user-456"`
		Friend   bool   `json:"friend"   doc:"Whether the target is in the caller's friend set" example:"true"`
	}
}
