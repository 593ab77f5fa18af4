package places

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	humachi "github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/mapsnap/backend/internal/platform/auth"
	applog "github.com/mapsnap/backend/internal/platform/logging"
	appmiddleware "github.com/mapsnap/backend/internal/platform/middleware"
	acctsvc "github.com/mapsnap/backend/internal/service/account"
)

func newTestRouter(svc acctsvc.Service, verifier auth.Verifier) chi.Router {
	router := chi.NewRouter()
	router.Use(
		appmiddleware.RequestID(),
		chimiddleware.RealIP,
		applog.RequestLogger(),
		chimiddleware.Recoverer,
	)
	api := humachi.New(router, huma.DefaultConfig("PlacesTest", "test"))
	api.UseMiddleware(auth.NewAuthMiddleware(api, verifier))
	Register(api, svc, "/v1")
	return router
}

func setup(t *testing.T, publicAccounts int) (chi.Router, *acctsvc.MockAccountService) {
	t.Helper()
	svc := acctsvc.NewMockAccountService()
	for i := range publicAccounts {
		id := fmt.Sprintf("u%02d", i)
		_, err := svc.Create(context.Background(), id, acctsvc.CreateParams{
			Username: "user" + id,
			Location: acctsvc.Location{Latitude: 46.5, Longitude: 6.5, Name: "EPFL"},
		})
		if err != nil {
			t.Fatalf("seed account %s: %v", id, err)
		}
	}
	verifier := &auth.MockVerifier{User: auth.TestUser()}
	return newTestRouter(svc, verifier), svc
}

type listBody struct {
	Places     []Place `json:"places"`
	Total      int     `json:"total"`
	NextCursor string  `json:"nextCursor"`
}

func listPlaces(t *testing.T, router chi.Router, target string) (listBody, *httptest.ResponseRecorder) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var body listBody
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("json unmarshal: %v", err)
	}
	return body, resp
}

func TestListPlaces(t *testing.T) {
	router, _ := setup(t, 3)

	body, _ := listPlaces(t, router, "/places")
	if body.Total != 3 {
		t.Fatalf("expected total 3, got %d", body.Total)
	}
	if len(body.Places) != 3 {
		t.Fatalf("expected 3 places, got %d", len(body.Places))
	}
	if body.Places[0].Name != "EPFL" {
		t.Errorf("expected location name EPFL, got %s", body.Places[0].Name)
	}
}

func TestListPlacesExcludesPrivateAccounts(t *testing.T) {
	router, svc := setup(t, 2)

	if _, err := svc.TogglePrivacy(context.Background(), "u00"); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	body, _ := listPlaces(t, router, "/places")
	if body.Total != 1 {
		t.Fatalf("expected total 1 after one account went private, got %d", body.Total)
	}
	if body.Places[0].OwnerID != "u01" {
		t.Errorf("expected only u01 listed, got %s", body.Places[0].OwnerID)
	}
}

func TestListPlacesPagination(t *testing.T) {
	router, _ := setup(t, 5)

	body, resp := listPlaces(t, router, "/places?limit=2")
	if body.Total != 5 {
		t.Fatalf("expected total 5, got %d", body.Total)
	}
	if len(body.Places) != 2 {
		t.Fatalf("expected page of 2, got %d", len(body.Places))
	}
	if body.NextCursor == "" {
		t.Fatal("expected next cursor")
	}
	if link := resp.Header().Get("Link"); !strings.Contains(link, `rel="next"`) {
		t.Errorf("expected Link header with next relation, got %q", link)
	}

	// Follow the cursor to the second page.
	body, _ = listPlaces(t, router, "/places?limit=2&cursor="+body.NextCursor)
	if len(body.Places) != 2 {
		t.Fatalf("expected second page of 2, got %d", len(body.Places))
	}
	if body.Places[0].OwnerID != "u02" {
		t.Errorf("expected second page to start at u02, got %s", body.Places[0].OwnerID)
	}
}

func TestListPlacesInvalidCursor(t *testing.T) {
	router, _ := setup(t, 1)

	req := httptest.NewRequest(http.MethodGet, "/places?cursor=%21%21not-base64", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", resp.Code, resp.Body.String())
	}
}

// flakyService makes the index read fail on demand while delegating
// everything else to the in-memory mock.
type flakyService struct {
	*acctsvc.MockAccountService
	fail bool
}

func (f *flakyService) Places(ctx context.Context) ([]acctsvc.Place, error) {
	if f.fail {
		return nil, errors.New("store unavailable")
	}
	return f.MockAccountService.Places(ctx)
}

func TestListPlacesServesCacheOnFailure(t *testing.T) {
	mock := acctsvc.NewMockAccountService()
	if _, err := mock.Create(context.Background(), "u1", acctsvc.CreateParams{
		Username: "alice",
		Location: acctsvc.Location{Latitude: 46.5, Longitude: 6.5, Name: "EPFL"},
	}); err != nil {
		t.Fatalf("seed account: %v", err)
	}
	svc := &flakyService{MockAccountService: mock}
	verifier := &auth.MockVerifier{User: auth.TestUser()}
	router := newTestRouter(svc, verifier)

	// Prime the fallback cache.
	body, _ := listPlaces(t, router, "/places")
	if body.Total != 1 {
		t.Fatalf("expected total 1, got %d", body.Total)
	}

	// A failing store read serves the last known listing.
	svc.fail = true
	body, _ = listPlaces(t, router, "/places")
	if body.Total != 1 {
		t.Fatalf("expected cached listing of 1, got %d", body.Total)
	}
}

func TestListPlacesFailsWithoutCache(t *testing.T) {
	svc := &flakyService{MockAccountService: acctsvc.NewMockAccountService(), fail: true}
	verifier := &auth.MockVerifier{User: auth.TestUser()}
	router := newTestRouter(svc, verifier)

	req := httptest.NewRequest(http.MethodGet, "/places", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 with no cached listing, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestListPlacesRequiresAuth(t *testing.T) {
	router, _ := setup(t, 1)

	req := httptest.NewRequest(http.MethodGet, "/places", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}
