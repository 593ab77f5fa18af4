package account

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	applog "github.com/mapsnap/backend/internal/platform/logging"
)

// checkFriendTarget verifies that friendID names a known account. The
// check runs against the public-identity collection rather than the
// account store so the error surface never leaks anything about a private
// account beyond its existence as an identity.
func (s *FirestoreStore) checkFriendTarget(ctx context.Context, userID, friendID string) error {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(friendID) == "" {
		return ErrBlankID
	}
	if userID == friendID {
		return ErrSelfFriend
	}
	_, err := s.identityDoc(friendID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return ErrNotFound
	}
	return err
}

// AddFriend adds the forward edge userID->friendID, then best-effort adds
// the reverse edge. The forward edge's success is the operation's success
// condition; a reverse-edge failure is logged, reported in the
// EdgeResult, and swallowed, leaving the graph asymmetric until
// reconciled. A one-directional edge is acceptable degraded state, never
// a fatal error for the initiating user.
func (s *FirestoreStore) AddFriend(ctx context.Context, userID, friendID string) (EdgeResult, error) {
	if err := s.checkFriendTarget(ctx, userID, friendID); err != nil {
		applog.LogAuditEvent(ctx, "add_friend", userID, "account", friendID, "failure",
			map[string]any{"error": categorizeError(err)})
		return EdgeResult{}, err
	}

	if err := s.addToSet(ctx, userID, fieldFriends, friendID); err != nil {
		applog.LogAuditEvent(ctx, "add_friend", userID, "account", friendID, "failure",
			map[string]any{"error": categorizeError(err)})
		return EdgeResult{}, err
	}

	result := EdgeResult{}
	if err := s.addToSet(ctx, friendID, fieldFriends, userID); err != nil {
		applog.LogWarn(ctx, "reverse friend edge write failed",
			zap.String("user_id", userID),
			zap.String("friend_id", friendID),
			zap.Error(err))
		result.ReverseErr = err
	}

	applog.LogAuditEvent(ctx, "add_friend", userID, "account", friendID, "success",
		map[string]any{"symmetric": result.Symmetric()})

	return result, nil
}

// RemoveFriend removes the forward edge, then best-effort removes the
// reverse edge, with the same failure contract as AddFriend.
func (s *FirestoreStore) RemoveFriend(ctx context.Context, userID, friendID string) (EdgeResult, error) {
	if err := s.checkFriendTarget(ctx, userID, friendID); err != nil {
		applog.LogAuditEvent(ctx, "remove_friend", userID, "account", friendID, "failure",
			map[string]any{"error": categorizeError(err)})
		return EdgeResult{}, err
	}

	if err := s.removeFromSet(ctx, userID, fieldFriends, friendID); err != nil {
		applog.LogAuditEvent(ctx, "remove_friend", userID, "account", friendID, "failure",
			map[string]any{"error": categorizeError(err)})
		return EdgeResult{}, err
	}

	result := EdgeResult{}
	if err := s.removeFromSet(ctx, friendID, fieldFriends, userID); err != nil {
		applog.LogWarn(ctx, "reverse friend edge removal failed",
			zap.String("user_id", userID),
			zap.String("friend_id", friendID),
			zap.Error(err))
		result.ReverseErr = err
	}

	applog.LogAuditEvent(ctx, "remove_friend", userID, "account", friendID, "success",
		map[string]any{"symmetric": result.Symmetric()})

	return result, nil
}

// IsFriend reports whether friendID is in userID's friend set. The answer
// reflects userID's side of the edge only and is not necessarily
// symmetric.
func (s *FirestoreStore) IsFriend(ctx context.Context, userID, friendID string) (bool, error) {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(friendID) == "" {
		return false, ErrBlankID
	}
	acct, err := s.Get(ctx, userID)
	if err != nil {
		return false, err
	}
	return acct.HasFriend(friendID), nil
}
