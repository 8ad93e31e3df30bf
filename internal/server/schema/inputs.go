package schema

import (
	"github.com/dmitrijs2005/geoledger/internal/server/models"
	"github.com/shopspring/decimal"
)

// DonationInput is the body of a donation creation request.
type DonationInput struct {
	DonorPublicKey string
	Amount         decimal.Decimal
	NGOID          int64
	ProjectID      *int64
	DonorLocation  models.Location
	ChainCreateTx  *string
}

func ParseDonation(body []byte) Result[DonationInput] {
	o := Parse(body)
	in := DonationInput{
		DonorPublicKey: o.String("donor_public_key", 1),
		Amount:         o.PositiveDecimal("amount"),
		NGOID:          o.Int("ngo_id"),
		ProjectID:      o.OptionalInt("project_id"),
	}
	loc := o.Object("donor_location")
	in.DonorLocation = models.Location{Lat: loc.Number("lat"), Lng: loc.Number("lng")}
	in.ChainCreateTx = o.OptionalString("chain_create_tx")
	return result(in, o)
}

// ParseRecipientLocation reads {recipient_lat, recipient_lng}.
func ParseRecipientLocation(body []byte) Result[models.Location] {
	o := Parse(body)
	loc := models.Location{Lat: o.Number("recipient_lat"), Lng: o.Number("recipient_lng")}
	return result(loc, o)
}

// VerifyInput is the body of an impact verification request.
type VerifyInput struct {
	DonationID        int64
	VerifierPublicKey string
	ChainVerifyTx     *string
}

func ParseVerify(body []byte) Result[VerifyInput] {
	o := Parse(body)
	in := VerifyInput{
		DonationID:        o.Int("donation_id"),
		VerifierPublicKey: o.String("verifier_public_key", 0),
		ChainVerifyTx:     o.OptionalString("chain_verify_tx"),
	}
	return result(in, o)
}

type NGOInput struct {
	Name          string
	WalletAddress string
	Sector        *string
}

func ParseNGO(body []byte) Result[NGOInput] {
	o := Parse(body)
	in := NGOInput{
		Name:          o.String("name", 0),
		WalletAddress: o.String("wallet_address", 0),
		Sector:        o.OptionalString("sector"),
	}
	return result(in, o)
}

type ProjectInput struct {
	Name        string
	NGOID       int64
	Description *string
	Latitude    *float64
	Longitude   *float64
}

func ParseProject(body []byte) Result[ProjectInput] {
	o := Parse(body)
	in := ProjectInput{
		Name:        o.String("name", 2),
		Description: o.OptionalString("description"),
		NGOID:       o.Int("ngo_id"),
		Latitude:    o.OptionalNumber("latitude"),
		Longitude:   o.OptionalNumber("longitude"),
	}
	return result(in, o)
}

// ParseVerification reads the administrative {verified} decision.
func ParseVerification(body []byte) Result[bool] {
	o := Parse(body)
	v := o.Bool("verified")
	return result(v, o)
}

// EvidenceInput is the body of a content pin request.
type EvidenceInput struct {
	DonationID int64
	Content    string
}

func ParseEvidence(body []byte) Result[EvidenceInput] {
	o := Parse(body)
	in := EvidenceInput{DonationID: o.Int("donation_id"), Content: o.String("content", 0)}
	return result(in, o)
}
