package account

import (
	"context"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	applog "github.com/mapsnap/backend/internal/platform/logging"
)

// addToSet adds element to one of the owner's id-set fields. The read
// establishes that the owner exists and skips the write when the element
// is already present; the write itself is narrowed to the one array field
// (ArrayUnion) so a concurrent edit to an unrelated field between fetch
// and write is never lost.
func (s *FirestoreStore) addToSet(ctx context.Context, ownerID string, field setField, element string) error {
	if strings.TrimSpace(ownerID) == "" || strings.TrimSpace(element) == "" {
		return ErrBlankID
	}

	acct, err := s.Get(ctx, ownerID)
	if err != nil {
		return err
	}
	if contains(fieldValue(acct, field), element) {
		return nil
	}

	_, err = s.accountDoc(ownerID).Update(ctx, []firestore.Update{
		{Path: string(field), Value: firestore.ArrayUnion(element)},
		{Path: "updated_at", Value: time.Now().UTC()},
	})
	if status.Code(err) == codes.NotFound {
		return ErrNotFound
	}
	return err
}

// removeFromSet removes element from one of the owner's id-set fields.
// Removing an absent element is a no-op success.
func (s *FirestoreStore) removeFromSet(ctx context.Context, ownerID string, field setField, element string) error {
	if strings.TrimSpace(ownerID) == "" || strings.TrimSpace(element) == "" {
		return ErrBlankID
	}

	acct, err := s.Get(ctx, ownerID)
	if err != nil {
		return err
	}
	if !contains(fieldValue(acct, field), element) {
		return nil
	}

	_, err = s.accountDoc(ownerID).Update(ctx, []firestore.Update{
		{Path: string(field), Value: firestore.ArrayRemove(element)},
		{Path: "updated_at", Value: time.Now().UTC()},
	})
	if status.Code(err) == codes.NotFound {
		return ErrNotFound
	}
	return err
}

func fieldValue(a *Account, field setField) []string {
	switch field {
	case fieldFriends:
		return a.FriendIDs
	case fieldSnaps:
		return a.SnapIDs
	case fieldStarred:
		return a.StarredSnapIDs
	}
	return nil
}

// AddSnap adds snapID to the owner's snap set. Idempotent; snap ids are
// opaque here, no referential check against the snap store is performed.
func (s *FirestoreStore) AddSnap(ctx context.Context, ownerID, snapID string) error {
	err := s.addToSet(ctx, ownerID, fieldSnaps, snapID)
	s.auditSet(ctx, "add_snap", ownerID, snapID, err)
	return err
}

// RemoveSnap removes snapID from the owner's snap set.
func (s *FirestoreStore) RemoveSnap(ctx context.Context, ownerID, snapID string) error {
	err := s.removeFromSet(ctx, ownerID, fieldSnaps, snapID)
	s.auditSet(ctx, "remove_snap", ownerID, snapID, err)
	return err
}

// StarSnap adds snapID to the owner's starred set.
func (s *FirestoreStore) StarSnap(ctx context.Context, ownerID, snapID string) error {
	err := s.addToSet(ctx, ownerID, fieldStarred, snapID)
	s.auditSet(ctx, "star_snap", ownerID, snapID, err)
	return err
}

// UnstarSnap removes snapID from the owner's starred set.
func (s *FirestoreStore) UnstarSnap(ctx context.Context, ownerID, snapID string) error {
	err := s.removeFromSet(ctx, ownerID, fieldStarred, snapID)
	s.auditSet(ctx, "unstar_snap", ownerID, snapID, err)
	return err
}

func (s *FirestoreStore) auditSet(ctx context.Context, action, ownerID, element string, err error) {
	if err != nil {
		applog.LogAuditEvent(ctx, action, ownerID, "account", ownerID, "failure",
			map[string]any{"element": element, "error": categorizeError(err)})
		return
	}
	applog.LogAuditEvent(ctx, action, ownerID, "account", ownerID, "success",
		map[string]any{"element": element})
}
