package httputil

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	defaultLimit = 50
	maxLimit     = 100
)

// Page is an offset/limit window over a listing.
type Page struct {
	Offset int
	Limit  int
}

// ParsePage reads the offset and limit query parameters.
// Offset defaults to 0 and limit to 50; limit may not exceed 100.
func ParsePage(c *gin.Context) (Page, error) {
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		return Page{}, fmt.Errorf("invalid offset parameter: must be a non-negative integer")
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if err != nil || limit < 1 || limit > maxLimit {
		return Page{}, fmt.Errorf("invalid limit parameter: must be between 1 and %d", maxLimit)
	}

	return Page{Offset: offset, Limit: limit}, nil
}

// Apply returns the part of items that falls inside the page.
func Apply[T any](p Page, items []T) []T {
	if p.Offset >= len(items) {
		return items[:0]
	}
	end := min(p.Offset+p.Limit, len(items))
	return items[p.Offset:end]
}
