// Package pagination parses the page/limit query parameters shared by every
// list endpoint.
package pagination

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// Params are the clamped pagination inputs. Offset is derived for repository
// queries that take an absolute row offset.
type Params struct {
	Page   int
	Limit  int
	Offset int
}

// Parse reads page and limit from the request query, falling back to the
// defaults and clamping limit to [1, MaxLimit]. Malformed values behave like
// absent ones.
func Parse(c *gin.Context) Params {
	page, _ := strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(DefaultPage)))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultLimit)))

	if page < 1 {
		page = DefaultPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return Params{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}
