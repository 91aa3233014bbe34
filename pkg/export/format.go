package export

import "time"

func clock(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("15:04")
}
