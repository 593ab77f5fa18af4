package account

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// MockAccountService implements Service in memory for unit tests and
// local development. Observe streams are fed by an in-process notifier;
// FailWritesFor injects deterministic write failures so tests can force
// the asymmetric friend-edge path.
type MockAccountService struct {
	mu         sync.Mutex
	accounts   map[string]*Account
	identities map[string]string
	places     map[string]Place
	corrupt    map[string]bool
	failWrites map[string]error
	notifier   *notifier
}

// NewMockAccountService creates a new mock service.
func NewMockAccountService() *MockAccountService {
	return &MockAccountService{
		accounts:   make(map[string]*Account),
		identities: make(map[string]string),
		places:     make(map[string]Place),
		corrupt:    make(map[string]bool),
		failWrites: make(map[string]error),
		notifier:   newNotifier(),
	}
}

// FailWritesFor makes every subsequent write to id's record fail with
// err. Pass nil to clear.
func (m *MockAccountService) FailWritesFor(id string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.failWrites, id)
		return
	}
	m.failWrites[id] = err
}

// MarkCorrupt makes reads of id's record fail with ErrCorrupt, simulating
// a stored representation that cannot be decoded.
func (m *MockAccountService) MarkCorrupt(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.corrupt[id] = true
}

// Clear removes all state (useful for test cleanup).
func (m *MockAccountService) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts = make(map[string]*Account)
	m.identities = make(map[string]string)
	m.places = make(map[string]Place)
	m.corrupt = make(map[string]bool)
	m.failWrites = make(map[string]error)
}

func (m *MockAccountService) getLocked(id string) (*Account, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrBlankID
	}
	if m.corrupt[id] {
		return nil, ErrCorrupt
	}
	a, ok := m.accounts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return a, nil
}

func (m *MockAccountService) writeGuardLocked(id string) error {
	if err, ok := m.failWrites[id]; ok {
		return err
	}
	return nil
}

// reprojectLocked reconciles the place entry for a and fans the new index
// out to place watches.
func (m *MockAccountService) reprojectLocked(a *Account) {
	if !a.Private && a.Location.Valid() {
		m.places[a.ID] = Place{OwnerID: a.ID, Username: a.Username, Location: a.Location}
	} else {
		delete(m.places, a.ID)
	}
	m.notifier.publishPlaces(m.placesLocked())
}

func (m *MockAccountService) placesLocked() []Place {
	out := make([]Place, 0, len(m.places))
	for _, p := range m.places {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OwnerID < out[j].OwnerID })
	return out
}

func (m *MockAccountService) Create(_ context.Context, id string, params CreateParams) (*Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if strings.TrimSpace(id) == "" {
		return nil, ErrBlankID
	}
	if _, exists := m.accounts[id]; exists {
		return nil, ErrAlreadyExists
	}
	if taken := m.usernameTakenLocked(params.Username, id); taken {
		return nil, ErrUsernameTaken
	}
	if err := m.writeGuardLocked(id); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	a := &Account{
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
	m.accounts[id] = a
	m.identities[id] = a.Username
	m.reprojectLocked(a)
	m.notifier.publish(a.clone())

	out := a.clone()
	return &out, nil
}

func (m *MockAccountService) Get(_ context.Context, id string) (*Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, err := m.getLocked(id)
	if err != nil {
		return nil, err
	}
	out := a.clone()
	return &out, nil
}

func (m *MockAccountService) Exists(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if strings.TrimSpace(id) == "" {
		return false, ErrBlankID
	}
	username, ok := m.identities[id]
	return ok && username != "", nil
}

func (m *MockAccountService) Edit(_ context.Context, id string, params EditParams) (*Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, err := m.getLocked(id)
	if err != nil {
		return nil, err
	}
	if params.Username != "" && params.Username != a.Username {
		if m.usernameTakenLocked(params.Username, id) {
			return nil, ErrUsernameTaken
		}
	}
	if err := m.writeGuardLocked(id); err != nil {
		return nil, err
	}

	if params.Username != "" {
		a.Username = params.Username
	}
	if params.Birthday != "" {
		a.Birthday = params.Birthday
	}
	if params.PictureRef != "" {
		a.PictureRef = params.PictureRef
	}
	if params.Location.Valid() {
		a.Location = params.Location
	}
	a.UpdatedAt = time.Now().UTC()

	m.identities[id] = a.Username
	m.reprojectLocked(a)
	m.notifier.publish(a.clone())

	out := a.clone()
	return &out, nil
}

func (m *MockAccountService) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := m.getLocked(id); err != nil {
		return err
	}
	if err := m.writeGuardLocked(id); err != nil {
		return err
	}

	delete(m.accounts, id)
	delete(m.identities, id)
	delete(m.places, id)
	m.notifier.publishPlaces(m.placesLocked())
	m.notifier.drop(id)
	return nil
}

func (m *MockAccountService) TogglePrivacy(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, err := m.getLocked(id)
	if err != nil {
		return false, err
	}
	if a.Private && !a.Location.Valid() {
		return false, ErrInvalidLocation
	}
	if err := m.writeGuardLocked(id); err != nil {
		return false, err
	}

	a.Private = !a.Private
	a.UpdatedAt = time.Now().UTC()
	m.reprojectLocked(a)
	m.notifier.publish(a.clone())
	return a.Private, nil
}

func (m *MockAccountService) IsUsernameTaken(_ context.Context, username, excludingID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.usernameTakenLocked(username, excludingID), nil
}

func (m *MockAccountService) usernameTakenLocked(username, excludingID string) bool {
	if username == "" {
		return false
	}
	for id, u := range m.identities {
		if u == username && id != excludingID {
			return true
		}
	}
	return false
}

func (m *MockAccountService) addToSetLocked(ownerID string, field setField, element string) error {
	if strings.TrimSpace(ownerID) == "" || strings.TrimSpace(element) == "" {
		return ErrBlankID
	}
	a, err := m.getLocked(ownerID)
	if err != nil {
		return err
	}
	if contains(fieldValue(a, field), element) {
		return nil
	}
	if err := m.writeGuardLocked(ownerID); err != nil {
		return err
	}

	switch field {
	case fieldFriends:
		a.FriendIDs = append(a.FriendIDs, element)
	case fieldSnaps:
		a.SnapIDs = append(a.SnapIDs, element)
	case fieldStarred:
		a.StarredSnapIDs = append(a.StarredSnapIDs, element)
	}
	a.UpdatedAt = time.Now().UTC()
	m.notifier.publish(a.clone())
	return nil
}

func (m *MockAccountService) removeFromSetLocked(ownerID string, field setField, element string) error {
	if strings.TrimSpace(ownerID) == "" || strings.TrimSpace(element) == "" {
		return ErrBlankID
	}
	a, err := m.getLocked(ownerID)
	if err != nil {
		return err
	}
	if !contains(fieldValue(a, field), element) {
		return nil
	}
	if err := m.writeGuardLocked(ownerID); err != nil {
		return err
	}

	switch field {
	case fieldFriends:
		a.FriendIDs = remove(a.FriendIDs, element)
	case fieldSnaps:
		a.SnapIDs = remove(a.SnapIDs, element)
	case fieldStarred:
		a.StarredSnapIDs = remove(a.StarredSnapIDs, element)
	}
	a.UpdatedAt = time.Now().UTC()
	m.notifier.publish(a.clone())
	return nil
}

func remove(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func (m *MockAccountService) AddSnap(_ context.Context, ownerID, snapID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.addToSetLocked(ownerID, fieldSnaps, snapID)
}

func (m *MockAccountService) RemoveSnap(_ context.Context, ownerID, snapID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.removeFromSetLocked(ownerID, fieldSnaps, snapID)
}

func (m *MockAccountService) StarSnap(_ context.Context, ownerID, snapID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.addToSetLocked(ownerID, fieldStarred, snapID)
}

func (m *MockAccountService) UnstarSnap(_ context.Context, ownerID, snapID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.removeFromSetLocked(ownerID, fieldStarred, snapID)
}

func (m *MockAccountService) AddFriend(_ context.Context, userID, friendID string) (EdgeResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkFriendTargetLocked(userID, friendID); err != nil {
		return EdgeResult{}, err
	}
	if err := m.addToSetLocked(userID, fieldFriends, friendID); err != nil {
		return EdgeResult{}, err
	}
	result := EdgeResult{}
	if err := m.addToSetLocked(friendID, fieldFriends, userID); err != nil {
		result.ReverseErr = err
	}
	return result, nil
}

func (m *MockAccountService) RemoveFriend(_ context.Context, userID, friendID string) (EdgeResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkFriendTargetLocked(userID, friendID); err != nil {
		return EdgeResult{}, err
	}
	if err := m.removeFromSetLocked(userID, fieldFriends, friendID); err != nil {
		return EdgeResult{}, err
	}
	result := EdgeResult{}
	if err := m.removeFromSetLocked(friendID, fieldFriends, userID); err != nil {
		result.ReverseErr = err
	}
	return result, nil
}

func (m *MockAccountService) checkFriendTargetLocked(userID, friendID string) error {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(friendID) == "" {
		return ErrBlankID
	}
	if userID == friendID {
		return ErrSelfFriend
	}
	if _, ok := m.identities[friendID]; !ok {
		return ErrNotFound
	}
	return nil
}

func (m *MockAccountService) IsFriend(_ context.Context, userID, friendID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if strings.TrimSpace(userID) == "" || strings.TrimSpace(friendID) == "" {
		return false, ErrBlankID
	}
	a, err := m.getLocked(userID)
	if err != nil {
		return false, err
	}
	return a.HasFriend(friendID), nil
}

func (m *MockAccountService) Places(_ context.Context) ([]Place, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.placesLocked(), nil
}

func (m *MockAccountService) ObservePlaces(_ context.Context) (*PlacesWatch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.notifier.subscribePlaces(m.placesLocked()), nil
}

func (m *MockAccountService) Observe(_ context.Context, id string) (*Watch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, err := m.getLocked(id)
	if err != nil {
		return nil, err
	}
	return m.notifier.subscribe(id, a.clone()), nil
}

// Compile-time interface check
var _ Service = (*MockAccountService)(nil)
