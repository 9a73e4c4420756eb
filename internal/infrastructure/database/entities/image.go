package entities

import "time"

// Image represents the persisted image metadata.
type Image struct {
	ID          uint      `gorm:"primaryKey"`
	UserID      uint      `gorm:"not null;index"`
	FileName    string    `gorm:"type:varchar(255);not null"`
	FilePath    string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	ContentType string    `gorm:"type:varchar(128);not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	ModifiedAt  time.Time `gorm:"autoUpdateTime"`
}

func (Image) TableName() string {
	return "images"
}
