package account

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"
)

// Service errors
var (
	// ErrNotFound indicates no account record exists for the given id.
	ErrNotFound = errors.New("account not found")

	// ErrAlreadyExists indicates a create on an id that already has a record.
	ErrAlreadyExists = errors.New("account already exists")

	// ErrBlankID indicates an empty identifier where one is required.
	ErrBlankID = errors.New("blank identifier")

	// ErrUsernameTaken indicates a non-blank username is already held by
	// another account.
	ErrUsernameTaken = errors.New("username taken")

	// ErrInvalidLocation indicates the account's location does not pass the
	// validity check where one is required.
	ErrInvalidLocation = errors.New("invalid location")

	// ErrCorrupt indicates a stored record could not be decoded into a
	// well-typed Account. Callers should treat this as a data-integrity
	// alarm, not a routine validation failure.
	ErrCorrupt = errors.New("corrupt account record")

	// ErrSelfFriend indicates an attempt to add an account to its own
	// friend set.
	ErrSelfFriend = errors.New("cannot befriend self")
)

// Location is a coordinate plus display name. The zero value is the
// "unset" location and is not valid.
type Location struct {
	Latitude  float64
	Longitude float64
	Name      string
}

// Valid reports whether the location is usable: finite coordinates and a
// non-empty display name.
func (l Location) Valid() bool {
	if l.Name == "" {
		return false
	}
	for _, c := range []float64{l.Latitude, l.Longitude} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// Account is the authoritative per-user record.
//
// The three id slices carry set semantics: no duplicates, add is
// idempotent, remove of an absent element is a no-op. FriendIDs is
// symmetric by construction but each side is stored and mutated
// independently, so a one-directional edge is possible degraded state.
type Account struct {
	ID             string
	OwnerID        string
	Username       string
	Birthday       string
	PictureRef     string
	FriendIDs      []string
	SnapIDs        []string
	StarredSnapIDs []string
	Private        bool
	Location       Location
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// HasFriend reports whether id is present in the account's friend set.
// It reflects this account's side of the edge only.
func (a *Account) HasFriend(id string) bool {
	return contains(a.FriendIDs, id)
}

// clone returns a deep copy so snapshots handed to observers never alias
// the stored slices.
func (a Account) clone() Account {
	c := a
	c.FriendIDs = append([]string(nil), a.FriendIDs...)
	c.SnapIDs = append([]string(nil), a.SnapIDs...)
	c.StarredSnapIDs = append([]string(nil), a.StarredSnapIDs...)
	return c
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// CreateParams for creating an account.
type CreateParams struct {
	Username   string
	Birthday   string
	PictureRef string
	Private    bool
	Location   Location
}

// EditParams for editing an account. A blank field keeps the current
// value; Location is applied only when it passes the validity check.
type EditParams struct {
	Username   string
	Birthday   string
	PictureRef string
	Location   Location
}

// Place is a public location index entry: a read-optimized projection of
// a public account's username and location, keyed by owner id. Entries
// exist iff the account is public and its location is valid, and are
// written only as a side effect of account mutations.
type Place struct {
	OwnerID  string
	Username string
	Location Location
}

// EdgeResult reports the outcome of a friend-graph mutation. The forward
// edge committed whenever the operation returned no error; ReverseErr
// carries the best-effort reverse edge's failure, if any, leaving the
// graph asymmetric until reconciled.
type EdgeResult struct {
	ReverseErr error
}

// Symmetric reports whether both edges committed.
func (r EdgeResult) Symmetric() bool {
	return r.ReverseErr == nil
}

// Service defines the account engine operations.
//
// Every mutation is scoped to a single account record; the backing store
// serializes writes to the same record but provides no cross-account
// transactions. Within one caller's sequential code, operations against
// the same id observe their own prior writes.
type Service interface {
	// Create persists a new account under id. Fails with ErrAlreadyExists
	// when the id already has a record and ErrUsernameTaken when the
	// requested username is non-blank and held by another account.
	Create(ctx context.Context, id string, params CreateParams) (*Account, error)

	// Get loads the account for id. Fails with ErrBlankID, ErrNotFound,
	// or ErrCorrupt when the stored representation cannot be decoded.
	Get(ctx context.Context, id string) (*Account, error)

	// Exists reports whether id has a record with a non-blank username,
	// distinguishing "registered" from "record exists but registration
	// incomplete".
	Exists(ctx context.Context, id string) (bool, error)

	// Edit updates the account. Blank params keep current values; an
	// invalid location keeps the current location. A changed non-blank
	// username re-runs the uniqueness check; on conflict the account is
	// left unchanged and ErrUsernameTaken is returned.
	Edit(ctx context.Context, id string, params EditParams) (*Account, error)

	// Delete removes the account record and retracts any place entry.
	Delete(ctx context.Context, id string) error

	// TogglePrivacy flips the private flag and returns the new value.
	// Leaving private mode requires a valid location; the private->public
	// transition fails with ErrInvalidLocation otherwise. Going private
	// always succeeds.
	TogglePrivacy(ctx context.Context, id string) (bool, error)

	// IsUsernameTaken reports whether any account other than excludingID
	// holds username. Blank usernames never collide. This is a
	// read-then-write check, not a transactional constraint.
	IsUsernameTaken(ctx context.Context, username, excludingID string) (bool, error)

	// AddFriend adds friendID to userID's friend set and best-effort adds
	// the reverse edge. Fails with ErrNotFound when friendID is unknown to
	// the public-identity collection. A reverse-edge failure is logged and
	// reported in the EdgeResult, never propagated as an error.
	AddFriend(ctx context.Context, userID, friendID string) (EdgeResult, error)

	// RemoveFriend removes the forward edge and best-effort removes the
	// reverse edge, with the same failure contract as AddFriend.
	RemoveFriend(ctx context.Context, userID, friendID string) (EdgeResult, error)

	// IsFriend reports whether friendID is in userID's friend set. Not
	// necessarily symmetric; always query from the perspective of the user
	// whose screen is being rendered.
	IsFriend(ctx context.Context, userID, friendID string) (bool, error)

	// Owned-snap set.
	AddSnap(ctx context.Context, ownerID, snapID string) error
	RemoveSnap(ctx context.Context, ownerID, snapID string) error

	// Starred-snap set.
	StarSnap(ctx context.Context, ownerID, snapID string) error
	UnstarSnap(ctx context.Context, ownerID, snapID string) error

	// Places returns the full public location index as a snapshot.
	// No pagination or filtering is performed here; that is left to
	// callers.
	Places(ctx context.Context) ([]Place, error)

	// ObservePlaces streams the public location index: the current index
	// first, then a new snapshot after every change.
	ObservePlaces(ctx context.Context) (*PlacesWatch, error)

	// Observe streams Account snapshots for id: the current stored state
	// first (ErrNotFound when none exists), then every subsequent state
	// committed through this service. Per-id emissions arrive in commit
	// order; only the most recent state is buffered.
	Observe(ctx context.Context, id string) (*Watch, error)
}

// Watch is a live Account snapshot stream. Stop releases the
// subscription; the Updates channel is closed when the watch ends or the
// observed account is deleted.
type Watch struct {
	updates  chan Account
	stop     func()
	stopOnce sync.Once
}

func newWatch(stop func()) *Watch {
	w := &Watch{updates: make(chan Account, 1)}
	w.stop = stop
	return w
}

// Updates returns the snapshot channel.
func (w *Watch) Updates() <-chan Account {
	return w.updates
}

// Stop ends the watch. Safe to call more than once.
func (w *Watch) Stop() {
	w.stopOnce.Do(func() {
		if w.stop != nil {
			w.stop()
		}
	})
}

// push delivers a snapshot, discarding the previous undelivered one so a
// slow consumer only ever lags by the most recent state.
func (w *Watch) push(a Account) {
	for {
		select {
		case w.updates <- a:
			return
		default:
			select {
			case <-w.updates:
			default:
			}
		}
	}
}

func (w *Watch) close() {
	close(w.updates)
}

// PlacesWatch is a live stream of public location index snapshots.
type PlacesWatch struct {
	updates  chan []Place
	stop     func()
	stopOnce sync.Once
}

func newPlacesWatch(stop func()) *PlacesWatch {
	w := &PlacesWatch{updates: make(chan []Place, 1)}
	w.stop = stop
	return w
}

// Updates returns the snapshot channel.
func (w *PlacesWatch) Updates() <-chan []Place {
	return w.updates
}

// Stop ends the watch. Safe to call more than once.
func (w *PlacesWatch) Stop() {
	w.stopOnce.Do(func() {
		if w.stop != nil {
			w.stop()
		}
	})
}

func (w *PlacesWatch) push(p []Place) {
	for {
		select {
		case w.updates <- p:
			return
		default:
			select {
			case <-w.updates:
			default:
			}
		}
	}
}

func (w *PlacesWatch) close() {
	close(w.updates)
}
