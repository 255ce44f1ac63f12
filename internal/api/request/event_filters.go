package request

import (
	"fmt"
	"net/http"
	"time"
)

// EventFilters carries the query filters for the analytics event listing.
// Zero Start means "from the beginning"; End defaults to now.
type EventFilters struct {
	Name  string
	Start time.Time
	End   time.Time
}

// ParseEventFilters extracts name/start/end query parameters. Dates accept
// RFC3339 or plain YYYY-MM-DD.
func ParseEventFilters(r *http.Request) (EventFilters, error) {
	query := r.URL.Query()

	filters := EventFilters{
		Name: query.Get("name"),
		End:  time.Now().UTC(),
	}

	if raw := query.Get("start"); raw != "" {
		start, err := parseFilterTime(raw)
		if err != nil {
			return EventFilters{}, fmt.Errorf("invalid start date: %w", err)
		}
		filters.Start = start
	}

	if raw := query.Get("end"); raw != "" {
		end, err := parseFilterTime(raw)
		if err != nil {
			return EventFilters{}, fmt.Errorf("invalid end date: %w", err)
		}
		filters.End = end
	}

	return filters, nil
}

func parseFilterTime(raw string) (time.Time, error) {
	if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
		return parsed.UTC(), nil
	}
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, err
	}
	return parsed.UTC(), nil
}
