package pagination

import (
	"fmt"
	"net/url"
	"strings"
)

// BuildLinkHeader renders an RFC 8288 Link header with next and prev
// relations. Query parameters already on the request (limit and such)
// are carried over so the linked URLs stand on their own.
func BuildLinkHeader(baseURL string, query url.Values, nextCursor, prevCursor string) string {
	var links []string
	for _, rel := range []struct {
		cursor string
		name   string
	}{
		{nextCursor, "next"},
		{prevCursor, "prev"},
	} {
		if rel.cursor == "" {
			continue
		}
		q := cloneValues(query)
		q.Set("cursor", rel.cursor)
		links = append(links, fmt.Sprintf("<%s?%s>; rel=%q", baseURL, q.Encode(), rel.name))
	}
	return strings.Join(links, ", ")
}

func cloneValues(v url.Values) url.Values {
	if v == nil {
		return make(url.Values)
	}
	out := make(url.Values, len(v))
	for k, vals := range v {
		out[k] = append([]string(nil), vals...)
	}
	return out
}
