package models

import "time"

type Message struct {
	ID uint `gorm:"primaryKey" json:"id"`

	SenderID uint `gorm:"not null" json:"sender_id"`
	Sender   User `gorm:"foreignKey:SenderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	ReceiverID uint `gorm:"not null" json:"receiver_id"`
	Receiver   User `gorm:"foreignKey:ReceiverID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	Message string `gorm:"type:text;not null" json:"message"`

	SentAt time.Time `json:"sent_at"`
}
