package domain

import "time"

type User struct {
	ID         int64
	TelegramID int64
	FirstName  string
	Username   string
	Grade      Grade
	IsAdmin    bool

	LastInteraction time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// GradeOrDefault returns the configured grade, falling back to the
// 7th-grade default when none was chosen yet.
func (u *User) GradeOrDefault() Grade {
	if u.Grade.Valid() {
		return u.Grade
	}
	return DefaultGrade
}
