package models

import "time"

type SubscriberModel struct {
	ChatID       int64     `gorm:"primaryKey;column:chat_id"`
	Label        string    `gorm:"column:label"`
	SubscribedAt time.Time `gorm:"column:subscribed_at"`
}

func (SubscriberModel) TableName() string {
	return "subscribers"
}
