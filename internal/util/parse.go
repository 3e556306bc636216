package util

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// ParseInt parses a string to an integer, returning defaultValue if parsing fails
func ParseInt(s string, defaultValue int) int {
	if val, err := strconv.Atoi(s); err == nil {
		return val
	}
	return defaultValue
}

// Pagination holds a clamped limit/offset pair
type Pagination struct {
	Limit  int
	Offset int
}

// ParsePagination reads ?limit= and ?offset= with sane bounds
func ParsePagination(c *gin.Context) Pagination {
	limit := ParseInt(c.Query("limit"), defaultPageLimit)
	offset := ParseInt(c.Query("offset"), 0)

	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	if offset < 0 {
		offset = 0
	}
	return Pagination{Limit: limit, Offset: offset}
}
