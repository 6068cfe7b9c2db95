package repositories

import "gorm.io/gorm"

// NewGormStore wires every repository against one database handle
func NewGormStore(db *gorm.DB) *Store {
	return &Store{
		Users:       NewUserRepository(db),
		Events:      NewEventRepository(db),
		Payments:    NewPaymentRepository(db),
		Locations:   NewLocationRepository(db),
		Graduations: NewGraduationRepository(db),
		Chat:        NewChatRepository(db),
		Messages:    NewMessageRepository(db),
	}
}
