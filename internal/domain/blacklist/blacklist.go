package blacklist

import "time"

// SuspiciousIP is a blacklisted IP address
type SuspiciousIP struct {
	ID        int64     `json:"id"`
	IP        string    `json:"ip"`
	CreatedAt time.Time `json:"created_at"`
}

// StolenCard is a blacklisted card number
type StolenCard struct {
	ID         int64     `json:"id"`
	CardNumber string    `json:"number"`
	CreatedAt  time.Time `json:"created_at"`
}

// ErrIPExists indicates the IP is already blacklisted
type ErrIPExists struct {
	IP string
}

func (e ErrIPExists) Error() string {
	return "suspicious IP already exists: " + e.IP
}

// ErrIPNotFound indicates the IP is not blacklisted
type ErrIPNotFound struct {
	IP string
}

func (e ErrIPNotFound) Error() string {
	return "suspicious IP not found: " + e.IP
}

// ErrCardExists indicates the card number is already blacklisted
type ErrCardExists struct {
	CardNumber string
}

func (e ErrCardExists) Error() string {
	return "stolen card already exists: " + e.CardNumber
}

// ErrCardNotFound indicates the card number is not blacklisted
type ErrCardNotFound struct {
	CardNumber string
}

func (e ErrCardNotFound) Error() string {
	return "stolen card not found: " + e.CardNumber
}
