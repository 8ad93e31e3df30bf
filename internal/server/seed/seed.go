// Package seed holds the demo NGO catalogue loaded into the in-memory store.
package seed

import (
	"time"

	"github.com/dmitrijs2005/geoledger/internal/server/models"
)

func ngo(id int64, name, wallet, sector string, status models.VerificationStatus, created string) models.NGO {
	t, err := time.Parse(time.RFC3339, created)
	if err != nil {
		panic(err)
	}
	return models.NGO{
		ID:                 id,
		Name:               name,
		WalletAddress:      wallet,
		Sector:             &sector,
		VerificationStatus: status,
		CreatedAt:          t,
	}
}

// DemoNGOs returns a fresh copy of the demo catalogue.
func DemoNGOs() []models.NGO {
	return []models.NGO{
		ngo(1, "Save The Ocean Foundation", "GDEMOOCEAN1AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA", "Environment", models.NGOVerified, "2024-01-15T10:00:00Z"),
		ngo(2, "Education For All Initiative", "GDEMOEDU1AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA", "Education", models.NGOVerified, "2024-02-20T14:30:00Z"),
		ngo(3, "Green Earth Initiative", "GDEMOGREEN1AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA", "Environment", models.NGOVerified, "2024-03-10T09:15:00Z"),
		ngo(4, "Health First Medical Aid", "GDEMOHEALTH1AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA", "Healthcare", models.NGOVerified, "2024-04-05T11:45:00Z"),
		ngo(5, "Clean Water Project", "GDEMOWATER1AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA", "Water & Sanitation", models.NGOVerified, "2024-05-12T16:20:00Z"),
		ngo(6, "Women Empowerment Network", "GDEMOWOMEN1AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA", "Women Empowerment", models.NGOVerified, "2024-06-18T13:00:00Z"),
		ngo(7, "Child Welfare Foundation", "GDEMOCHILD1AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA", "Child Welfare", models.NGOPending, "2024-07-22T10:30:00Z"),
		ngo(8, "Animal Rescue League", "GDEMOANIMAL1AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA", "Animal Welfare", models.NGOVerified, "2024-08-30T15:45:00Z"),
	}
}
