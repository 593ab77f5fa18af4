package places

import (
	"github.com/mapsnap/backend/internal/platform/pagination"
)

// ListInput for GET /places
type ListInput struct {
	pagination.Params
}
