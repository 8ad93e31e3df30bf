package models

import "time"

// VerificationStatus is the administrative review state of an NGO.
type VerificationStatus string

const (
	NGOPending  VerificationStatus = "pending"
	NGOVerified VerificationStatus = "verified"
	NGORejected VerificationStatus = "rejected"
)

// NGO is a registered recipient organisation. WalletAddress is opaque and
// never validated against a chain format.
type NGO struct {
	ID                 int64              `json:"id"`
	Name               string             `json:"name"`
	WalletAddress      string             `json:"wallet_address"`
	Sector             *string            `json:"sector"`
	VerificationStatus VerificationStatus `json:"verification_status"`
	CreatedAt          time.Time          `json:"created_at"`
}

// Listed reports whether the NGO may appear in public listings.
func (n *NGO) Listed() bool {
	return n.VerificationStatus == NGOPending || n.VerificationStatus == NGOVerified
}
