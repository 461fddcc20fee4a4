package helper_util

import (
	"time"

	"github.com/gin-gonic/gin"
)

func ParseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	return t, err
}

// GetTimeRangeParams reads the from/to query parameters, defaulting to the
// last fallback window.
func GetTimeRangeParams(c *gin.Context, fallback time.Duration) (from, to time.Time, err error) {
	to = time.Now().UTC()
	if s := c.Query("to"); s != "" {
		if to, err = ParseTime(s); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	from = to.Add(-fallback)
	if s := c.Query("from"); s != "" {
		if from, err = ParseTime(s); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	return from, to, nil
}
