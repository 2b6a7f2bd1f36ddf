package task

import (
	"fmt"
	"strings"
	"time"

	"github.com/josephgoksu/TaskNest/models"
)

// ParseDueDate parses a YYYY-MM-DD date for EditDueDate. An empty string
// yields nil, which clears the date.
func ParseDueDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	d, err := time.Parse(models.DateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("%w: due date %q is not in YYYY-MM-DD form", ErrInvalid, s)
	}
	return &d, nil
}
