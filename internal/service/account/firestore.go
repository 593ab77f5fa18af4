package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	applog "github.com/mapsnap/backend/internal/platform/logging"
)

const (
	accountsCollection   = "accounts"
	identitiesCollection = "identities"
	placesCollection     = "public_locations"
)

// categorizeError converts errors to audit-safe categories.
func categorizeError(err error) string {
	switch {
	case errors.Is(err, ErrAlreadyExists):
		return "already_exists"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrBlankID):
		return "blank_identifier"
	case errors.Is(err, ErrUsernameTaken):
		return "username_taken"
	case errors.Is(err, ErrInvalidLocation):
		return "invalid_location"
	case errors.Is(err, ErrSelfFriend):
		return "self_friend"
	case errors.Is(err, ErrCorrupt):
		return "corrupt_record"
	default:
		return "internal_error"
	}
}

// firestoreAccount maps to the accounts document structure.
type firestoreAccount struct {
	OwnerID        string    `firestore:"owner_id"`
	Username       string    `firestore:"username"`
	Birthday       string    `firestore:"birthday"`
	PictureRef     string    `firestore:"picture_ref"`
	FriendIDs      []string  `firestore:"friend_ids"`
	SnapIDs        []string  `firestore:"snap_ids"`
	StarredSnapIDs []string  `firestore:"starred_snap_ids"`
	Private        bool      `firestore:"private"`
	Latitude       float64   `firestore:"latitude"`
	Longitude      float64   `firestore:"longitude"`
	LocationName   string    `firestore:"location_name"`
	CreatedAt      time.Time `firestore:"created_at"`
	UpdatedAt      time.Time `firestore:"updated_at"`
}

// firestoreIdentity maps to the public-identity document structure. One
// doc per account id; this is the collection username uniqueness and
// friend existence checks run against.
type firestoreIdentity struct {
	Username string `firestore:"username"`
}

// firestorePlace maps to the public location index document structure.
type firestorePlace struct {
	Username     string    `firestore:"username"`
	Latitude     float64   `firestore:"latitude"`
	Longitude    float64   `firestore:"longitude"`
	LocationName string    `firestore:"location_name"`
	UpdatedAt    time.Time `firestore:"updated_at"`
}

// setField names an id-set field on the account document. Set mutations
// are narrowed to this single field so concurrent edits to unrelated
// fields are never overwritten.
type setField string

const (
	fieldFriends setField = "friend_ids"
	fieldSnaps   setField = "snap_ids"
	fieldStarred setField = "starred_snap_ids"
)

// FirestoreStore implements Service using Firestore with transactions.
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore creates a new Firestore-backed store.
func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

func (s *FirestoreStore) accountDoc(id string) *firestore.DocumentRef {
	return s.client.Collection(accountsCollection).Doc(id)
}

func (s *FirestoreStore) identityDoc(id string) *firestore.DocumentRef {
	return s.client.Collection(identitiesCollection).Doc(id)
}

func (s *FirestoreStore) placeDoc(id string) *firestore.DocumentRef {
	return s.client.Collection(placesCollection).Doc(id)
}

// decodeAccount converts a document snapshot into an Account, surfacing
// undecodable data as ErrCorrupt rather than silently defaulting fields,
// so data loss is never masked.
func decodeAccount(doc *firestore.DocumentSnapshot) (*Account, error) {
	var fa firestoreAccount
	if err := doc.DataTo(&fa); err != nil {
		return nil, fmt.Errorf("%w: account %s: %v", ErrCorrupt, doc.Ref.ID, err)
	}
	return &Account{
		ID:             doc.Ref.ID,
		OwnerID:        fa.OwnerID,
		Username:       fa.Username,
		Birthday:       fa.Birthday,
		PictureRef:     fa.PictureRef,
		FriendIDs:      fa.FriendIDs,
		SnapIDs:        fa.SnapIDs,
		StarredSnapIDs: fa.StarredSnapIDs,
		Private:        fa.Private,
		Location: Location{
			Latitude:  fa.Latitude,
			Longitude: fa.Longitude,
			Name:      fa.LocationName,
		},
		CreatedAt: fa.CreatedAt,
		UpdatedAt: fa.UpdatedAt,
	}, nil
}

func encodeAccount(a *Account) firestoreAccount {
	return firestoreAccount{
		OwnerID:        a.OwnerID,
		Username:       a.Username,
		Birthday:       a.Birthday,
		PictureRef:     a.PictureRef,
		FriendIDs:      a.FriendIDs,
		SnapIDs:        a.SnapIDs,
		StarredSnapIDs: a.StarredSnapIDs,
		Private:        a.Private,
		Latitude:       a.Location.Latitude,
		Longitude:      a.Location.Longitude,
		LocationName:   a.Location.Name,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

// projectPlaceTx reconciles the public location index entry for the
// account inside the surrounding transaction: upsert when the account is
// public with a valid location, retract otherwise. Idempotent; re-applying
// the same account state produces the same index state.
func (s *FirestoreStore) projectPlaceTx(tx *firestore.Transaction, a *Account) error {
	ref := s.placeDoc(a.ID)
	if !a.Private && a.Location.Valid() {
		return tx.Set(ref, firestorePlace{
			Username:     a.Username,
			Latitude:     a.Location.Latitude,
			Longitude:    a.Location.Longitude,
			LocationName: a.Location.Name,
			UpdatedAt:    a.UpdatedAt,
		})
	}
	return tx.Delete(ref)
}

// Create persists a new account using a transaction to prevent duplicate
// ids. The identity doc and place projection commit atomically with it.
func (s *FirestoreStore) Create(ctx context.Context, id string, params CreateParams) (*Account, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrBlankID
	}

	if params.Username != "" {
		taken, err := s.IsUsernameTaken(ctx, params.Username, id)
		if err != nil {
			return nil, err
		}
		if taken {
			applog.LogAuditEvent(ctx, "create", id, "account", id, "failure",
				map[string]any{"error": categorizeError(ErrUsernameTaken)})
			return nil, ErrUsernameTaken
		}
	}

	now := time.Now().UTC()
	acct := &Account{
		ID:             id,
		OwnerID:        id,
		Username:       params.Username,
		Birthday:       params.Birthday,
		PictureRef:     params.PictureRef,
		FriendIDs:      []string{},
		SnapIDs:        []string{},
		StarredSnapIDs: []string{},
		Private:        params.Private,
		Location:       params.Location,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err := s.client.RunTransaction(ctx, func(_ context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(s.accountDoc(id))
		if err == nil && doc.Exists() {
			return ErrAlreadyExists
		}
		if err != nil && status.Code(err) != codes.NotFound {
			return err
		}

		if err := tx.Set(s.accountDoc(id), encodeAccount(acct)); err != nil {
			return err
		}
		if err := tx.Set(s.identityDoc(id), firestoreIdentity{Username: acct.Username}); err != nil {
			return err
		}
		return s.projectPlaceTx(tx, acct)
	})
	if err != nil {
		applog.LogAuditEvent(ctx, "create", id, "account", id, "failure",
			map[string]any{"error": categorizeError(err)})
		return nil, err
	}

	applog.LogAuditEvent(ctx, "create", id, "account", id, "success", nil)

	return acct, nil
}

// Get retrieves an account by id.
func (s *FirestoreStore) Get(ctx context.Context, id string) (*Account, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrBlankID
	}
	doc, err := s.accountDoc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	acct, err := decodeAccount(doc)
	if err != nil {
		applog.LogError(ctx, "undecodable account record", err)
		return nil, err
	}
	return acct, nil
}

// Exists reports whether id is registered: a record exists and carries a
// non-blank username. The check runs against the public-identity
// collection so it never touches private account data.
func (s *FirestoreStore) Exists(ctx context.Context, id string) (bool, error) {
	if strings.TrimSpace(id) == "" {
		return false, ErrBlankID
	}
	doc, err := s.identityDoc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return false, nil
		}
		return false, err
	}
	var fi firestoreIdentity
	if err := doc.DataTo(&fi); err != nil {
		return false, fmt.Errorf("%w: identity %s: %v", ErrCorrupt, id, err)
	}
	return fi.Username != "", nil
}

// Edit updates an account. Blank params keep current values; an invalid
// location keeps the current location. A changed non-blank username
// re-runs the uniqueness check before committing.
func (s *FirestoreStore) Edit(ctx context.Context, id string, params EditParams) (*Account, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrBlankID
	}

	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Username != "" && params.Username != current.Username {
		taken, err := s.IsUsernameTaken(ctx, params.Username, id)
		if err != nil {
			return nil, err
		}
		if taken {
			applog.LogAuditEvent(ctx, "edit", id, "account", id, "failure",
				map[string]any{"error": categorizeError(ErrUsernameTaken)})
			return nil, ErrUsernameTaken
		}
	}

	var result *Account

	err = s.client.RunTransaction(ctx, func(_ context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(s.accountDoc(id))
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return ErrNotFound
			}
			return err
		}
		acct, err := decodeAccount(doc)
		if err != nil {
			return err
		}

		if params.Username != "" {
			acct.Username = params.Username
		}
		if params.Birthday != "" {
			acct.Birthday = params.Birthday
		}
		if params.PictureRef != "" {
			acct.PictureRef = params.PictureRef
		}
		if params.Location.Valid() {
			acct.Location = params.Location
		}
		acct.UpdatedAt = time.Now().UTC()

		if err := tx.Set(s.accountDoc(id), encodeAccount(acct)); err != nil {
			return err
		}
		if err := tx.Set(s.identityDoc(id), firestoreIdentity{Username: acct.Username}); err != nil {
			return err
		}
		if err := s.projectPlaceTx(tx, acct); err != nil {
			return err
		}
		result = acct
		return nil
	})
	if err != nil {
		applog.LogAuditEvent(ctx, "edit", id, "account", id, "failure",
			map[string]any{"error": categorizeError(err)})
		return nil, err
	}

	applog.LogAuditEvent(ctx, "edit", id, "account", id, "success", nil)

	return result, nil
}

// Delete removes the account record, its public identity, and any place
// entry in one transaction.
func (s *FirestoreStore) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrBlankID
	}

	err := s.client.RunTransaction(ctx, func(_ context.Context, tx *firestore.Transaction) error {
		_, err := tx.Get(s.accountDoc(id))
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return ErrNotFound
			}
			return err
		}
		if err := tx.Delete(s.accountDoc(id)); err != nil {
			return err
		}
		if err := tx.Delete(s.identityDoc(id)); err != nil {
			return err
		}
		return tx.Delete(s.placeDoc(id))
	})
	if err != nil {
		applog.LogAuditEvent(ctx, "delete", id, "account", id, "failure",
			map[string]any{"error": categorizeError(err)})
		return err
	}

	applog.LogAuditEvent(ctx, "delete", id, "account", id, "success", nil)

	return nil
}

// TogglePrivacy flips the private flag and reconciles the place entry.
// Leaving private mode requires a valid location; going private always
// succeeds.
func (s *FirestoreStore) TogglePrivacy(ctx context.Context, id string) (bool, error) {
	if strings.TrimSpace(id) == "" {
		return false, ErrBlankID
	}

	var newPrivate bool

	err := s.client.RunTransaction(ctx, func(_ context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(s.accountDoc(id))
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return ErrNotFound
			}
			return err
		}
		acct, err := decodeAccount(doc)
		if err != nil {
			return err
		}

		if acct.Private && !acct.Location.Valid() {
			return ErrInvalidLocation
		}

		acct.Private = !acct.Private
		acct.UpdatedAt = time.Now().UTC()
		newPrivate = acct.Private

		if err := tx.Set(s.accountDoc(id), encodeAccount(acct)); err != nil {
			return err
		}
		return s.projectPlaceTx(tx, acct)
	})
	if err != nil {
		applog.LogAuditEvent(ctx, "toggle_privacy", id, "account", id, "failure",
			map[string]any{"error": categorizeError(err)})
		return false, err
	}

	applog.LogAuditEvent(ctx, "toggle_privacy", id, "account", id, "success",
		map[string]any{"private": newPrivate})

	return newPrivate, nil
}

// IsUsernameTaken reports whether any identity other than excludingID
// holds username. Blank usernames never collide: many accounts may be
// simultaneously unregistered.
func (s *FirestoreStore) IsUsernameTaken(ctx context.Context, username, excludingID string) (bool, error) {
	if username == "" {
		return false, nil
	}
	it := s.client.Collection(identitiesCollection).
		Where("username", "==", username).
		Documents(ctx)
	defer it.Stop()

	for {
		doc, err := it.Next()
		if errors.Is(err, iterator.Done) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		if doc.Ref.ID != excludingID {
			return true, nil
		}
	}
}

// Places returns the full public location index as a snapshot.
func (s *FirestoreStore) Places(ctx context.Context) ([]Place, error) {
	it := s.client.Collection(placesCollection).Documents(ctx)
	defer it.Stop()

	places := []Place{}
	for {
		doc, err := it.Next()
		if errors.Is(err, iterator.Done) {
			return places, nil
		}
		if err != nil {
			return nil, err
		}
		p, err := decodePlace(doc)
		if err != nil {
			applog.LogError(ctx, "undecodable place record", err)
			return nil, err
		}
		places = append(places, p)
	}
}

func decodePlace(doc *firestore.DocumentSnapshot) (Place, error) {
	var fp firestorePlace
	if err := doc.DataTo(&fp); err != nil {
		return Place{}, fmt.Errorf("%w: place %s: %v", ErrCorrupt, doc.Ref.ID, err)
	}
	return Place{
		OwnerID:  doc.Ref.ID,
		Username: fp.Username,
		Location: Location{
			Latitude:  fp.Latitude,
			Longitude: fp.Longitude,
			Name:      fp.LocationName,
		},
	}, nil
}

// ObservePlaces streams the public location index using Firestore query
// snapshot listeners: the current index first, then a fresh snapshot on
// every change.
func (s *FirestoreStore) ObservePlaces(ctx context.Context) (*PlacesWatch, error) {
	watchCtx, cancel := context.WithCancel(ctx)
	it := s.client.Collection(placesCollection).Snapshots(watchCtx)

	w := newPlacesWatch(func() {
		cancel()
		it.Stop()
	})

	go func() {
		defer w.close()
		for {
			snap, err := it.Next()
			if err != nil {
				if status.Code(err) != codes.Canceled {
					applog.LogError(watchCtx, "places watch ended", err)
				}
				return
			}
			places := []Place{}
			docs := snap.Documents
			for {
				doc, err := docs.Next()
				if errors.Is(err, iterator.Done) {
					break
				}
				if err != nil {
					applog.LogError(watchCtx, "places watch read failed", err)
					return
				}
				p, err := decodePlace(doc)
				if err != nil {
					applog.LogError(watchCtx, "undecodable place record", err)
					continue
				}
				places = append(places, p)
			}
			w.push(places)
		}
	}()

	return w, nil
}

// Observe streams Account snapshots for id using Firestore document
// snapshot listeners. The current state is delivered before Observe
// returns; deletion of the account ends the stream.
func (s *FirestoreStore) Observe(ctx context.Context, id string) (*Watch, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrBlankID
	}

	watchCtx, cancel := context.WithCancel(ctx)
	it := s.accountDoc(id).Snapshots(watchCtx)

	snap, err := it.Next()
	if err != nil {
		cancel()
		it.Stop()
		return nil, err
	}
	if !snap.Exists() {
		cancel()
		it.Stop()
		return nil, ErrNotFound
	}
	acct, err := decodeAccount(snap)
	if err != nil {
		cancel()
		it.Stop()
		applog.LogError(ctx, "undecodable account record", err)
		return nil, err
	}

	w := newWatch(func() {
		cancel()
		it.Stop()
	})
	w.push(*acct)

	go func() {
		defer w.close()
		for {
			snap, err := it.Next()
			if err != nil {
				if status.Code(err) != codes.Canceled {
					applog.LogError(watchCtx, "account watch ended", err)
				}
				return
			}
			if !snap.Exists() {
				return
			}
			acct, err := decodeAccount(snap)
			if err != nil {
				applog.LogError(watchCtx, "undecodable account record", err)
				return
			}
			w.push(*acct)
		}
	}()

	return w, nil
}

// Compile-time interface check
var _ Service = (*FirestoreStore)(nil)
