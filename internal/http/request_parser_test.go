package http

import (
	"net/url"
	"testing"
	"time"

	"fintrack/internal/core"
)

func TestParseFilters(t *testing.T) {
	query := url.Values{}
	query.Set("type", "expense")
	query.Set("category", "food")
	query.Set("dateFrom", "2024-01-01")
	query.Set("dateTo", "2024-01-31")
	query.Set("search", " coffee ")

	f, err := parseFilters(query)
	if err != nil {
		t.Fatalf("parseFilters() error = %v", err)
	}
	if f.Type != core.Expense || f.Category != core.Food {
		t.Errorf("unexpected type/category: %+v", f)
	}
	if !f.DateFrom.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected dateFrom: %v", f.DateFrom)
	}
	if f.Search != "coffee" {
		t.Errorf("search should be trimmed, got %q", f.Search)
	}
}

func TestParseFiltersEmpty(t *testing.T) {
	f, err := parseFilters(url.Values{})
	if err != nil {
		t.Fatalf("parseFilters() error = %v", err)
	}
	if !f.IsEmpty() {
		t.Fatalf("expected empty filters, got %+v", f)
	}
}

func TestParseFiltersRejectsBadValues(t *testing.T) {
	tests := []struct {
		name       string
		key, value string
	}{
		{"unknown type", "type", "transfer"},
		{"unknown category", "category", "crypto"},
		{"bad dateFrom", "dateFrom", "01/02/2024"},
		{"bad dateTo", "dateTo", "yesterday"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query := url.Values{}
			query.Set(tt.key, tt.value)
			if _, err := parseFilters(query); err == nil {
				t.Errorf("expected error for %s=%s", tt.key, tt.value)
			}
		})
	}
}

func TestParseMonths(t *testing.T) {
	tests := []struct {
		value   string
		want    int
		wantErr bool
	}{
		{"", 0, false},
		{"6", 6, false},
		{"0", 0, false},
		{"-1", 0, true},
		{"six", 0, true},
	}
	for _, tt := range tests {
		query := url.Values{}
		if tt.value != "" {
			query.Set("months", tt.value)
		}
		got, err := parseMonths(query)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseMonths(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("parseMonths(%q) = %d, want %d", tt.value, got, tt.want)
		}
	}
}
