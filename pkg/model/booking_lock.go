package model

import "time"

// BookingLock is an advisory lock keyed by car, held while the
// overlap check and insert run. The unique _id makes acquisition a
// single conditional insert; ExpiresAt is TTL-indexed so crashed
// holders cannot wedge a car.
type BookingLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
