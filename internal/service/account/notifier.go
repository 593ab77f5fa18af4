package account

import "sync"

// notifier is the in-process change hub backing MockAccountService's
// observe streams: a channel registry keyed by account id with last-value
// replay for new subscribers. Publishing happens under the lock in commit
// order, so per-id emissions preserve mutation order; there is no
// ordering guarantee across ids.
type notifier struct {
	mu      sync.Mutex
	watches map[string]map[*Watch]struct{}

	placeWatches map[*PlacesWatch]struct{}
}

func newNotifier() *notifier {
	return &notifier{
		watches:      make(map[string]map[*Watch]struct{}),
		placeWatches: make(map[*PlacesWatch]struct{}),
	}
}

// subscribe registers a watch for id and replays current as its first
// emission.
func (n *notifier) subscribe(id string, current Account) *Watch {
	n.mu.Lock()
	defer n.mu.Unlock()

	var w *Watch
	w = newWatch(func() { n.unsubscribe(id, w) })
	if n.watches[id] == nil {
		n.watches[id] = make(map[*Watch]struct{})
	}
	n.watches[id][w] = struct{}{}
	w.push(current)
	return w
}

func (n *notifier) unsubscribe(id string, w *Watch) {
	n.mu.Lock()
	defer n.mu.Unlock()

	set, ok := n.watches[id]
	if !ok {
		return
	}
	if _, ok := set[w]; !ok {
		return
	}
	delete(set, w)
	if len(set) == 0 {
		delete(n.watches, id)
	}
	w.close()
}

// publish fans a committed account state out to every watch on its id.
func (n *notifier) publish(a Account) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for w := range n.watches[a.ID] {
		w.push(a.clone())
	}
}

// drop terminates every watch for id; used when the account is deleted.
func (n *notifier) drop(id string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for w := range n.watches[id] {
		w.close()
	}
	delete(n.watches, id)
}

// subscribePlaces registers a place-index watch and replays current.
func (n *notifier) subscribePlaces(current []Place) *PlacesWatch {
	n.mu.Lock()
	defer n.mu.Unlock()

	var w *PlacesWatch
	w = newPlacesWatch(func() { n.unsubscribePlaces(w) })
	n.placeWatches[w] = struct{}{}
	w.push(current)
	return w
}

func (n *notifier) unsubscribePlaces(w *PlacesWatch) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if _, ok := n.placeWatches[w]; !ok {
		return
	}
	delete(n.placeWatches, w)
	w.close()
}

// publishPlaces fans a new index snapshot out to every place watch.
func (n *notifier) publishPlaces(places []Place) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for w := range n.placeWatches {
		w.push(append([]Place(nil), places...))
	}
}
