package models

type Specialization struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name        string `gorm:"size:255;uniqueIndex;not null" json:"name"`
	Description string `gorm:"size:1000" json:"description"`

	Psychologists []Psychologist `gorm:"many2many:psychologist_specializations;" json:"psychologists,omitempty"`
}
