package clients

import "time"

// Spouse is the nested spouse block of a client profile.
type Spouse struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Occupation string `json:"occupation"`
	ContactNo  string `json:"contactNo"`
}

// Profile is one client record.
type Profile struct {
	ID         int64     `json:"id"`
	ClientNo   string    `json:"clientNo"`
	FirstName  string    `json:"firstName"`
	MiddleName string    `json:"middleName"`
	LastName   string    `json:"lastName"`
	Address    string    `json:"address"`
	ContactNo  string    `json:"contactNo"`
	Occupation string    `json:"occupation"`
	Spouse     Spouse    `json:"spouse"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// ProfileInput carries incoming profile fields for create or merge.
type ProfileInput struct {
	FirstName  string `json:"firstName"`
	MiddleName string `json:"middleName"`
	LastName   string `json:"lastName"`
	Address    string `json:"address"`
	ContactNo  string `json:"contactNo"`
	Occupation string `json:"occupation"`
	Spouse     Spouse `json:"spouse"`
}
