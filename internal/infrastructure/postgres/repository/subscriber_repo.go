package repository

import (
	"github.com/sidetrade/shift-service/internal/domain"
	"github.com/sidetrade/shift-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultSubscriberRepository struct {
	DB *gorm.DB
}

func NewDefaultSubscriberRepository(db *gorm.DB) *DefaultSubscriberRepository {
	return &DefaultSubscriberRepository{DB: db}
}

func (r *DefaultSubscriberRepository) Save(sub *domain.Subscriber) error {
	model := models.SubscriberModel{
		ChatID:       sub.ChatID,
		Label:        sub.Label,
		SubscribedAt: sub.SubscribedAt,
	}
	return r.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&model).Error
}

func (r *DefaultSubscriberRepository) Delete(chatID int64) error {
	return r.DB.Delete(&models.SubscriberModel{}, "chat_id = ?", chatID).Error
}

func (r *DefaultSubscriberRepository) LoadAll() ([]*domain.Subscriber, error) {
	var rows []models.SubscriberModel
	if err := r.DB.Find(&rows).Error; err != nil {
		return nil, err
	}

	subs := make([]*domain.Subscriber, 0, len(rows))
	for _, row := range rows {
		subs = append(subs, &domain.Subscriber{
			ChatID:       row.ChatID,
			Label:        row.Label,
			SubscribedAt: row.SubscribedAt,
		})
	}
	return subs, nil
}
