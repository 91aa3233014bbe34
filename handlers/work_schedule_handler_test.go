package handlers

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"hrms-backend/models"
)

func TestExpandSchedules(t *testing.T) {
	weekly := models.WorkSchedule{
		ID:             primitive.NewObjectID(),
		Date:           "2025-03-03",
		StartTime:      "09:00",
		EndTime:        "17:00",
		RecurrenceRule: "FREQ=WEEKLY;BYDAY=MO,WE",
	}
	override := models.WorkSchedule{ID: primitive.NewObjectID(), Date: "2025-03-10", StartTime: "10:00", EndTime: "15:00"}
	saturday := models.WorkSchedule{ID: primitive.NewObjectID(), Date: "2025-03-08", StartTime: "09:00", EndTime: "12:00"}
	outside := models.WorkSchedule{ID: primitive.NewObjectID(), Date: "2025-04-01", StartTime: "09:00", EndTime: "12:00"}
	broken := models.WorkSchedule{ID: primitive.NewObjectID(), Date: "2025-03-03", RecurrenceRule: "FREQ=SOMETIMES"}

	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	holidays := map[string]bool{"2025-03-05": true}

	got := expandSchedules([]models.WorkSchedule{override, weekly, saturday, outside, broken}, start, end, holidays)

	want := map[string]string{
		"2025-03-03": "09:00",
		"2025-03-08": "09:00",
		"2025-03-10": "10:00",
		"2025-03-12": "09:00",
	}
	if len(got) != len(want) {
		t.Fatalf("got %d days %+v, want %d", len(got), got, len(want))
	}
	for i := 1; i < len(got); i++ {
		if got[i-1].Date >= got[i].Date {
			t.Fatalf("days not sorted: %s before %s", got[i-1].Date, got[i].Date)
		}
	}
	for _, day := range got {
		if want[day.Date] != day.StartTime {
			t.Errorf("%s starts at %q, want %q", day.Date, day.StartTime, want[day.Date])
		}
	}
}
