package entities

import "time"

// User represents an API user identified by a static key.
type User struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	APIKey    string    `gorm:"type:varchar(64);uniqueIndex;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (User) TableName() string {
	return "users"
}
