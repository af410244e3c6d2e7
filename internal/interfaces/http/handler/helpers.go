package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/lettings/backend/internal/domain/shared"
	"github.com/lettings/backend/internal/interfaces/http/dto"
)

// pathID parses the :id path parameter as a UUID
func pathID(c *gin.Context) (uuid.UUID, error) {
	return uuid.Parse(c.Param("id"))
}

// baseFilter binds the common pagination and ordering query parameters into
// a shared.Filter. Binding errors surface as validation failures.
func baseFilter(c *gin.Context) (shared.Filter, error) {
	var q dto.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		return shared.Filter{}, err
	}
	return shared.Filter{
		Page:     q.Page,
		PageSize: q.PageSize,
		OrderBy:  q.OrderBy,
		OrderDir: q.OrderDir,
		Search:   q.Search,
	}, nil
}

// queryUUID parses an optional UUID query parameter, returning nil when the
// parameter is absent
func queryUUID(c *gin.Context, name string) (*uuid.UUID, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// queryTime parses an optional time query parameter, accepting RFC 3339 or a
// bare date
func queryTime(c *gin.Context, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		t, err = time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, err
		}
	}
	return &t, nil
}

// queryBool parses an optional boolean query parameter
func queryBool(c *gin.Context, name string) *bool {
	switch c.Query(name) {
	case "true", "1":
		v := true
		return &v
	case "false", "0":
		v := false
		return &v
	}
	return nil
}

// paginatedMeta converts a paginated result into response meta
func paginatedMeta[T any](p *shared.Paginated[T]) dto.Meta {
	return dto.Meta{
		Page:       p.Page,
		PageSize:   p.PageSize,
		Total:      p.Total,
		TotalPages: p.TotalPages,
	}
}
