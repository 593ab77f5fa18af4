package pagination

import (
	"fmt"
	"net/url"
	"strings"
	"testing"
)

type testPlace struct {
	OwnerID string
	Name    string
}

func makeTestPlaces(count int) []testPlace {
	places := make([]testPlace, count)
	for i := range count {
		places[i] = testPlace{
			OwnerID: fmt.Sprintf("acct-%03d", i+1),
			Name:    fmt.Sprintf("Place %03d", i+1),
		}
	}
	return places
}

func paginatePlaces(items []testPlace, cursor Cursor, limit int, query url.Values) Result[testPlace] {
	return Paginate(
		items,
		cursor,
		limit,
		"place",
		func(p testPlace) string { return p.OwnerID },
		"/v1/places",
		query,
	)
}

func TestPaginateFirstPage(t *testing.T) {
	result := paginatePlaces(makeTestPlaces(30), Cursor{}, 10, nil)

	if len(result.Items) != 10 {
		t.Fatalf("expected 10 items, got %d", len(result.Items))
	}
	if result.Total != 30 {
		t.Fatalf("expected total 30, got %d", result.Total)
	}
	if result.Items[0].OwnerID != "acct-001" {
		t.Fatalf("expected first item to be acct-001, got %s", result.Items[0].OwnerID)
	}
	if result.NextCursor == "" {
		t.Fatal("expected next cursor")
	}
	if result.PrevCursor != "" {
		t.Fatalf("expected no prev cursor, got %s", result.PrevCursor)
	}
}

func TestPaginateMiddlePage(t *testing.T) {
	cursor := Cursor{Type: "place", Value: "acct-010"}
	result := paginatePlaces(makeTestPlaces(30), cursor, 10, nil)

	if len(result.Items) != 10 {
		t.Fatalf("expected 10 items, got %d", len(result.Items))
	}
	if result.Items[0].OwnerID != "acct-011" {
		t.Fatalf("expected first item to be acct-011, got %s", result.Items[0].OwnerID)
	}
	if result.NextCursor == "" {
		t.Fatal("expected next cursor")
	}
	if result.PrevCursor == "" {
		t.Fatal("expected prev cursor")
	}
}

func TestPaginateLastPage(t *testing.T) {
	cursor := Cursor{Type: "place", Value: "acct-020"}
	result := paginatePlaces(makeTestPlaces(30), cursor, 10, nil)

	if len(result.Items) != 10 {
		t.Fatalf("expected 10 items, got %d", len(result.Items))
	}
	if result.Items[0].OwnerID != "acct-021" {
		t.Fatalf("expected first item to be acct-021, got %s", result.Items[0].OwnerID)
	}
	if result.NextCursor != "" {
		t.Fatalf("expected no next cursor, got %s", result.NextCursor)
	}
	if result.PrevCursor == "" {
		t.Fatal("expected prev cursor")
	}
}

func TestPaginateEmptyItems(t *testing.T) {
	result := paginatePlaces(nil, Cursor{}, 10, nil)

	if len(result.Items) != 0 {
		t.Fatalf("expected 0 items, got %d", len(result.Items))
	}
	if result.Total != 0 {
		t.Fatalf("expected total 0, got %d", result.Total)
	}
	if result.NextCursor != "" {
		t.Fatalf("expected no next cursor, got %s", result.NextCursor)
	}
	if result.PrevCursor != "" {
		t.Fatalf("expected no prev cursor, got %s", result.PrevCursor)
	}
}

func TestPaginateWithQueryParams(t *testing.T) {
	query := url.Values{}
	query.Set("q", "lausanne")

	result := paginatePlaces(makeTestPlaces(30), Cursor{}, 10, query)

	if result.LinkHeader == "" {
		t.Fatal("expected link header")
	}
	if !strings.Contains(result.LinkHeader, "q=lausanne") {
		t.Fatalf("expected search query in link header, got %s", result.LinkHeader)
	}
	if !strings.Contains(result.LinkHeader, "limit=10") {
		t.Fatalf("expected limit in link header, got %s", result.LinkHeader)
	}
}

func TestPaginateIgnoresForeignCursorType(t *testing.T) {
	// A cursor encoded for another resource must not position this one.
	cursor := Cursor{Type: "account", Value: "acct-010"}
	result := paginatePlaces(makeTestPlaces(30), cursor, 10, nil)

	if len(result.Items) != 10 {
		t.Fatalf("expected 10 items, got %d", len(result.Items))
	}
	if result.Items[0].OwnerID != "acct-001" {
		t.Fatalf("expected foreign cursor to be ignored, got first item %s", result.Items[0].OwnerID)
	}
}

func TestPaginateCursorNotFound(t *testing.T) {
	cursor := Cursor{Type: "place", Value: "acct-gone"}
	result := paginatePlaces(makeTestPlaces(10), cursor, 10, nil)

	if len(result.Items) != 10 {
		t.Fatalf("expected 10 items when cursor not found (starts from beginning), got %d", len(result.Items))
	}
	if result.Items[0].OwnerID != "acct-001" {
		t.Fatalf("expected to start from beginning, got %s", result.Items[0].OwnerID)
	}
}

func TestPaginatePrevCursorSecondPage(t *testing.T) {
	cursor := Cursor{Type: "place", Value: "acct-010"}
	result := paginatePlaces(makeTestPlaces(30), cursor, 10, nil)

	if result.PrevCursor == "" {
		t.Fatal("expected prev cursor for page 2")
	}

	prevDecoded, err := DecodeCursor(result.PrevCursor)
	if err != nil {
		t.Fatalf("failed to decode prev cursor: %v", err)
	}
	if prevDecoded.Value != "" {
		t.Fatalf("expected empty prev cursor value for going back to page 1, got %s", prevDecoded.Value)
	}
}

func TestPaginatePrevCursorThirdPage(t *testing.T) {
	cursor := Cursor{Type: "place", Value: "acct-020"}
	result := paginatePlaces(makeTestPlaces(30), cursor, 10, nil)

	if result.PrevCursor == "" {
		t.Fatal("expected prev cursor for page 3")
	}

	prevDecoded, err := DecodeCursor(result.PrevCursor)
	if err != nil {
		t.Fatalf("failed to decode prev cursor: %v", err)
	}
	if prevDecoded.Value != "acct-010" {
		t.Fatalf("expected prev cursor to point to acct-010, got %s", prevDecoded.Value)
	}
}

func TestPaginateLimitLargerThanItems(t *testing.T) {
	result := paginatePlaces(makeTestPlaces(5), Cursor{}, 20, nil)

	if len(result.Items) != 5 {
		t.Fatalf("expected 5 items, got %d", len(result.Items))
	}
	if result.NextCursor != "" {
		t.Fatalf("expected no next cursor, got %s", result.NextCursor)
	}
	if result.PrevCursor != "" {
		t.Fatalf("expected no prev cursor, got %s", result.PrevCursor)
	}
}
