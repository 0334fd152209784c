package models

import "time"

type Psychologist struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID uint `gorm:"uniqueIndex;not null" json:"user_id"`
	User   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`

	Experience   int     `gorm:"not null" json:"experience"`
	Bio          string  `gorm:"size:2000" json:"bio"`
	PricePerHour float64 `json:"price_per_hour"`
	AvatarURL    string  `gorm:"size:255" json:"avatar_url"`

	Specializations []Specialization `gorm:"many2many:psychologist_specializations;" json:"specializations"`
	Schedule        []Schedule       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"schedule"`
	Reviews         []Review         `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"reviews"`

	// Derived from Reviews on read, never stored.
	Rating float64 `gorm:"-" json:"rating"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ComputeRating fills Rating with the mean of the loaded reviews,
// 0.0 when there are none.
func (p *Psychologist) ComputeRating() {
	if len(p.Reviews) == 0 {
		p.Rating = 0.0
		return
	}

	var sum int
	for _, r := range p.Reviews {
		sum += r.Rating
	}
	p.Rating = float64(sum) / float64(len(p.Reviews))
}
