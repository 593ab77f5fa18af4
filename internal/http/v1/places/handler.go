package places

import (
	"context"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/mapsnap/backend/internal/platform/pagination"
	"github.com/mapsnap/backend/internal/platform/refresh"
	acctsvc "github.com/mapsnap/backend/internal/service/account"
)

// refreshTimeout bounds the remote index read; the last successful
// listing is served when the store does not answer in time.
const refreshTimeout = 2 * time.Second

// Handler serves the public location index, keeping the last successful
// listing as a fallback for slow or failing store reads.
type Handler struct {
	svc acctsvc.Service

	mu        sync.RWMutex
	lastKnown []acctsvc.Place
	haveLast  bool
}

// Register registers the places endpoints.
func Register(api huma.API, svc acctsvc.Service, prefix string) {
	h := &Handler{svc: svc}

	huma.Register(api, huma.Operation{
		OperationID: "list-places",
		Method:      http.MethodGet,
		Path:        "/places",
		Summary:     "List the public map",
		Description: "Public location index entries for every public account with a valid location. Cursor-paginated; may serve the last known listing when the store is slow.",
		Tags:        []string{"Places"},
		Security: []map[string][]string{
			{"bearerAuth": {}},
		},
	}, func(ctx context.Context, input *ListInput) (*ListOutput, error) {
		cursor, err := pagination.DecodeCursor(input.Cursor)
		if err != nil {
			return nil, huma.Error422UnprocessableEntity("invalid cursor")
		}

		all, err := h.listPlaces(ctx)
		if err != nil {
			return nil, huma.Error500InternalServerError("internal error")
		}

		result := pagination.Paginate(
			all,
			cursor,
			input.DefaultLimit(),
			"place",
			func(p acctsvc.Place) string { return p.OwnerID },
			prefix+"/places",
			url.Values{},
		)

		out := &ListOutput{Link: result.LinkHeader}
		out.Body.Places = toHTTPPlaces(result.Items)
		out.Body.Total = result.Total
		out.Body.NextCursor = result.NextCursor
		return out, nil
	})
}

// listPlaces reads the index with a bounded refresh, falling back to the
// last successful listing.
func (h *Handler) listPlaces(ctx context.Context) ([]acctsvc.Place, error) {
	places, err := refresh.Fresh(ctx, refreshTimeout,
		func(ctx context.Context) ([]acctsvc.Place, error) {
			return h.svc.Places(ctx)
		},
		func() ([]acctsvc.Place, bool) {
			h.mu.RLock()
			defer h.mu.RUnlock()
			return h.lastKnown, h.haveLast
		},
	)
	if err != nil {
		return nil, err
	}

	h.mu.Lock()
	h.lastKnown = places
	h.haveLast = true
	h.mu.Unlock()

	return places, nil
}
