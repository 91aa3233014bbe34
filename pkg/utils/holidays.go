package util

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"hrms-backend/models"
)

// HolidaySource supplies public holidays for a year.
type HolidaySource interface {
	Holidays(ctx context.Context, year int) ([]models.Holiday, error)
}

// HolidayAPIData is the payload shape returned by the holiday API.
type HolidayAPIData struct {
	Date              string `json:"holiday_date"`
	Name              string `json:"holiday_name"`
	IsNationalHoliday bool   `json:"is_national_holiday"`
}

type HolidayClient struct {
	BaseURL string
	HTTP    *http.Client
}

func NewHolidayClient(baseURL string) *HolidayClient {
	return &HolidayClient{BaseURL: baseURL, HTTP: &http.Client{Timeout: 2 * time.Second}}
}

// Holidays fetches national holidays. An unset base URL means no holidays.
func (h *HolidayClient) Holidays(ctx context.Context, year int) ([]models.Holiday, error) {
	if h == nil || h.BaseURL == "" {
		return []models.Holiday{}, nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.BaseURL+"?year="+strconv.Itoa(year), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build holiday request: %w", err)
	}
	resp, err := h.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch holidays: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("holiday API returned status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read holiday response: %w", err)
	}

	var rawHolidays []HolidayAPIData
	if err := json.Unmarshal(body, &rawHolidays); err != nil {
		return nil, fmt.Errorf("failed to decode holidays: %w", err)
	}

	holidays := make([]models.Holiday, 0, len(rawHolidays))
	for _, rawHoliday := range rawHolidays {
		if rawHoliday.IsNationalHoliday {
			holidays = append(holidays, models.Holiday{Date: normalizeDate(rawHoliday.Date), Name: rawHoliday.Name})
		}
	}
	return holidays, nil
}

// the API sometimes omits zero padding ("2024-1-1")
func normalizeDate(s string) string {
	if t, err := time.Parse("2006-1-2", s); err == nil {
		return t.Format("2006-01-02")
	}
	return s
}

// HolidayMap collects holidays for every year touched by [start, end] keyed by date.
func HolidayMap(ctx context.Context, src HolidaySource, start, end time.Time) (map[string]bool, error) {
	out := make(map[string]bool)
	if src == nil {
		return out, nil
	}
	for year := start.Year(); year <= end.Year(); year++ {
		holidays, err := src.Holidays(ctx, year)
		if err != nil {
			return out, err
		}
		for _, h := range holidays {
			out[h.Date] = true
		}
	}
	return out, nil
}
