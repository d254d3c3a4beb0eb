package models

import "time"

// Cart is the durable copy of one identity's cart. Key is "user:<id>" or
// "guest:<id>".
type Cart struct {
	Key       string     `gorm:"primaryKey;column:cart_key" json:"key"`
	Items     []LineItem `gorm:"serializer:json" json:"items"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func UserCartKey(userID string) string { return "user:" + userID }

func GuestCartKey(guestID string) string { return "guest:" + guestID }
