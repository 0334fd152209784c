package models

type Schedule struct {
	ID uint `gorm:"primaryKey" json:"id"`

	PsychologistID uint `gorm:"not null" json:"psychologist_id"`

	DayOfWeek int `json:"day_of_week"`

	// "15:04" wall-clock strings.
	StartTime string `gorm:"size:5" json:"start_time"`
	EndTime   string `gorm:"size:5" json:"end_time"`
}
