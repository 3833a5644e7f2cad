package attendance

import "time"

const (
	StatusNotStarted = "NOT_STARTED"
	StatusClockedIn  = "CLOCKED_IN"
	StatusClockedOut = "CLOCKED_OUT"
)

const (
	SourceMobile = "MOBILE"
	SourceWeb    = "WEB"
	SourceAdmin  = "ADMIN"
)

type Log struct {
	ID              string     `json:"id"`
	UserID          string     `json:"userId"`
	ClockIn         time.Time  `json:"clockIn"`
	ClockOut        *time.Time `json:"clockOut,omitempty"`
	DurationMinutes *int       `json:"durationMinutes,omitempty"`
	Lat             *float64   `json:"lat,omitempty"`
	Lng             *float64   `json:"lng,omitempty"`
	Source          string     `json:"source"`
	CreatedAt       time.Time  `json:"createdAt"`
}

type TodayStatus struct {
	Status string `json:"status"`
	Log    *Log   `json:"log,omitempty"`
}

type LogFilter struct {
	UserID string
	From   time.Time
	To     time.Time
	Limit  int
	Offset int
}

type LogList struct {
	Logs  []Log `json:"logs"`
	Total int   `json:"total"`
}

func ValidSource(source string) bool {
	switch source {
	case SourceMobile, SourceWeb, SourceAdmin:
		return true
	}
	return false
}
