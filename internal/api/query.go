package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/brandpulse/social-insights/internal/models"
)

// parseFilters builds a FilterSpec from query parameters.
//
//	start_date, end_date  YYYY-MM-DD, both bounds inclusive
//	days                  shorthand for start_date = now - days, ignored when
//	                      an explicit start_date is present
//	platforms             comma-separated platform names
//	post_urls             comma-separated exact post URLs
//	keywords              comma-separated matched-keyword values
func (s *Server) parseFilters(r *http.Request) (models.FilterSpec, error) {
	q := r.URL.Query()
	var spec models.FilterSpec

	if v := q.Get("start_date"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return spec, fmt.Errorf("start_date must be YYYY-MM-DD")
		}
		spec.DateStart = &t
	}
	if v := q.Get("end_date"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return spec, fmt.Errorf("end_date must be YYYY-MM-DD")
		}
		// End of the named day, so the bound is inclusive
		end := t.Add(24*time.Hour - time.Nanosecond)
		spec.DateEnd = &end
	}
	if spec.DateStart != nil && spec.DateEnd != nil && spec.DateEnd.Before(*spec.DateStart) {
		return spec, fmt.Errorf("end_date must not precede start_date")
	}

	if v := q.Get("days"); v != "" && spec.DateStart == nil {
		days, err := strconv.Atoi(v)
		if err != nil || days <= 0 {
			return spec, fmt.Errorf("days must be a positive integer")
		}
		start := s.now().UTC().AddDate(0, 0, -days)
		spec.DateStart = &start
	}

	for _, name := range splitParam(q.Get("platforms")) {
		platform, ok := models.ParsePlatform(name)
		if !ok {
			return spec, fmt.Errorf("unknown platform %q", name)
		}
		spec.Platforms = append(spec.Platforms, string(platform))
	}

	spec.PostURLs = splitParam(q.Get("post_urls"))
	spec.Keywords = splitParam(q.Get("keywords"))

	return spec, nil
}

func splitParam(value string) []string {
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
