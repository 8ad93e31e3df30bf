// Package ctl implements ledgerctl, the operator command line for the
// GeoLedger server. It mints admin tokens locally and drives the admin
// HTTP routes: freezing donations, verifying NGOs and running
// reconciliation sweeps.
package ctl
