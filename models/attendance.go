package models

import (
	"encoding/json"
	"errors"
	"time"
)

var (
	ErrAlreadyCheckedIn = errors.New("already checked in")
	ErrNotCheckedIn     = errors.New("not checked in")
)

// AttendanceSession is one check-in/check-out pair within a day.
type AttendanceSession struct {
	CheckIn  time.Time  `json:"check_in"`
	CheckOut *time.Time `json:"check_out"`
}

// Attendance holds a worker's sessions for one calendar date. Sessions are
// stored as a JSON blob on the row rather than as child rows.
type Attendance struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	WorkerID  uint      `json:"worker_id" gorm:"not null;uniqueIndex:uniq_worker_day"`
	Date      time.Time `json:"date" gorm:"type:date;not null;uniqueIndex:uniq_worker_day"`
	Sessions  string    `json:"-" gorm:"type:text"` // JSON array of AttendanceSession
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Worker *WorkerProfile `json:"worker,omitempty" gorm:"foreignKey:WorkerID"`
}

// TableName specifies the table name for the Attendance model
func (Attendance) TableName() string {
	return "attendances"
}

// GetSessions decodes the stored sessions blob
func (a *Attendance) GetSessions() ([]AttendanceSession, error) {
	if a.Sessions == "" {
		return nil, nil
	}
	var sessions []AttendanceSession
	if err := json.Unmarshal([]byte(a.Sessions), &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (a *Attendance) setSessions(sessions []AttendanceSession) error {
	data, err := json.Marshal(sessions)
	if err != nil {
		return err
	}
	a.Sessions = string(data)
	return nil
}

// IsCheckedIn reports whether the last session is still open
func (a *Attendance) IsCheckedIn() bool {
	sessions, err := a.GetSessions()
	if err != nil || len(sessions) == 0 {
		return false
	}
	return sessions[len(sessions)-1].CheckOut == nil
}

// CheckIn opens a new session. A second check-in without a check-out is rejected.
func (a *Attendance) CheckIn(now time.Time) error {
	sessions, err := a.GetSessions()
	if err != nil {
		return err
	}
	if len(sessions) > 0 && sessions[len(sessions)-1].CheckOut == nil {
		return ErrAlreadyCheckedIn
	}
	sessions = append(sessions, AttendanceSession{CheckIn: now})
	return a.setSessions(sessions)
}

// CheckOut closes the open session
func (a *Attendance) CheckOut(now time.Time) error {
	sessions, err := a.GetSessions()
	if err != nil {
		return err
	}
	if len(sessions) == 0 || sessions[len(sessions)-1].CheckOut != nil {
		return ErrNotCheckedIn
	}
	sessions[len(sessions)-1].CheckOut = &now
	return a.setSessions(sessions)
}
