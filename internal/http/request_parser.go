package http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"fintrack/internal/core"
)

// maxBodyBytes bounds request bodies; imports carry whole collections.
const maxBodyBytes = 8 << 20

const dateLayout = "2006-01-02"

// parseFilters extracts the optional listing filters from query parameters.
// Unknown type or category values are rejected rather than silently ignored.
func parseFilters(query url.Values) (core.Filters, error) {
	var f core.Filters

	if v := strings.TrimSpace(query.Get("type")); v != "" {
		tt := core.TransactionType(v)
		if !tt.Valid() {
			return core.Filters{}, fmt.Errorf("unknown transaction type %q", v)
		}
		f.Type = tt
	}
	if v := strings.TrimSpace(query.Get("category")); v != "" {
		cat := core.TransactionCategory(v)
		if !cat.Valid() {
			return core.Filters{}, fmt.Errorf("unknown category %q", v)
		}
		f.Category = cat
	}
	if v := strings.TrimSpace(query.Get("dateFrom")); v != "" {
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			return core.Filters{}, fmt.Errorf("invalid dateFrom %q: expected YYYY-MM-DD", v)
		}
		f.DateFrom = t
	}
	if v := strings.TrimSpace(query.Get("dateTo")); v != "" {
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			return core.Filters{}, fmt.Errorf("invalid dateTo %q: expected YYYY-MM-DD", v)
		}
		f.DateTo = t
	}
	f.Search = strings.TrimSpace(query.Get("search"))

	return f, nil
}

// parseMonths reads the optional months query parameter; 0 means all.
func parseMonths(query url.Values) (int, error) {
	v := strings.TrimSpace(query.Get("months"))
	if v == "" {
		return 0, nil
	}
	months, err := strconv.Atoi(v)
	if err != nil || months < 0 {
		return 0, fmt.Errorf("invalid months %q: expected a non-negative integer", v)
	}
	return months, nil
}

// readBody returns the raw request body, bounded by maxBodyBytes.
func readBody(r *http.Request) (string, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	if len(body) == 0 {
		return "", fmt.Errorf("empty request body")
	}
	return string(body), nil
}

// decodeBody unmarshals a JSON request body into dst.
func decodeBody(r *http.Request, dst any) error {
	body, err := readBody(r)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(body), dst); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}
