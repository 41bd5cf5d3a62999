package models

import "gorm.io/gorm"

// User is the personal profile daily targets are computed from. Identity and
// credentials live in the host application; the primary key is the caller's id.
type User struct {
	gorm.Model
	Email     string   `gorm:"size:255"`
	FullName  string
	Age       int
	Sex       string   `gorm:"size:16;not null"`
	Lifestyle string   `gorm:"size:32;not null"`
	Weight    *float64 // kg
	Height    *float64 // cm
}
