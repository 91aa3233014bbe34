package util

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHolidayClientFiltersNational(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("year") != "2024" {
			t.Errorf("unexpected year %q", r.URL.Query().Get("year"))
		}
		w.Write([]byte(`[
			{"holiday_date":"2024-1-26","holiday_name":"Republic Day","is_national_holiday":true},
			{"holiday_date":"2024-03-08","holiday_name":"Regional","is_national_holiday":false}
		]`))
	}))
	defer srv.Close()

	client := NewHolidayClient(srv.URL)
	got, err := client.Holidays(context.Background(), 2024)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Date != "2024-01-26" {
		t.Fatalf("unexpected holidays: %+v", got)
	}

	m, err := HolidayMap(context.Background(), client, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC))
	if err != nil || !m["2024-01-26"] {
		t.Fatalf("holiday map missing date: %v %v", m, err)
	}
}

func TestHolidayClientDisabled(t *testing.T) {
	got, err := NewHolidayClient("").Holidays(context.Background(), 2024)
	if err != nil || len(got) != 0 {
		t.Fatalf("expected empty list, got %v %v", got, err)
	}
}

func TestHolidayClientUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	if _, err := NewHolidayClient(srv.URL).Holidays(context.Background(), 2024); err == nil {
		t.Fatal("expected an error for a non-200 response")
	}
}
