package repository

import (
	"fmt"

	"gorm.io/gorm"
)

// AutoMigrate creates the tables plus the partial index that allows one
// non-cancelled booking per slot.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&userModel{}, &timeSlotModel{}, &bookingModel{}, &reviewModel{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	if err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_bookings_active_slot
ON bookings (time_slot_id) WHERE status <> 'cancelled'`).Error; err != nil {
		return fmt.Errorf("create idx_bookings_active_slot: %w", err)
	}
	return nil
}
