package models

import "time"

// CreatedAtLayout is the ISO-8601 layout used for CheckIn.CreatedAt
const CreatedAtLayout = "2006-01-02T15:04:05.000Z"

// CheckIn represents one guest stay registered at the front desk
type CheckIn struct {
	ID           int64  `json:"id"`
	GuestName    string `json:"guestName"`
	RoomNumber   string `json:"roomNumber"`
	CheckInDate  string `json:"checkInDate"`
	CheckOutDate string `json:"checkOutDate"`
	Notes        string `json:"notes"`
	CreatedAt    string `json:"createdAt"`
}

// Fields holds the caller-supplied part of a check-in
type Fields struct {
	GuestName    string `json:"guestName"`
	RoomNumber   string `json:"roomNumber"`
	CheckInDate  string `json:"checkInDate"`
	CheckOutDate string `json:"checkOutDate"`
	Notes        string `json:"notes"`
}

// NewCheckIn merges fields with a generated id and creation time
func NewCheckIn(id int64, fields Fields, createdAt time.Time) CheckIn {
	return CheckIn{
		ID:           id,
		GuestName:    fields.GuestName,
		RoomNumber:   fields.RoomNumber,
		CheckInDate:  fields.CheckInDate,
		CheckOutDate: fields.CheckOutDate,
		Notes:        fields.Notes,
		CreatedAt:    createdAt.UTC().Format(CreatedAtLayout),
	}
}

// Fields returns the caller-supplied part of the record
func (c CheckIn) Fields() Fields {
	return Fields{
		GuestName:    c.GuestName,
		RoomNumber:   c.RoomNumber,
		CheckInDate:  c.CheckInDate,
		CheckOutDate: c.CheckOutDate,
		Notes:        c.Notes,
	}
}
