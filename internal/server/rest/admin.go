package rest

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/geoledger/internal/common"
	"github.com/dmitrijs2005/geoledger/internal/logging"
)

func (h *Handler) FreezeDonation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "not-found")
		return
	}
	r = r.WithContext(logging.WithAttrs(r.Context(), "donation_id", id))

	d, err := h.donations.Freeze(r.Context(), id)
	switch {
	case errors.Is(err, common.ErrorNotFound):
		writeError(w, http.StatusNotFound, "not-found")
	case err != nil:
		h.fail(w, r, http.StatusInternalServerError, "failed-update", err)
	default:
		h.log(r).Info(r.Context(), "donation frozen", "donation_id", id)
		writeJSON(w, http.StatusOK, d)
	}
}

func (h *Handler) Reconcile(w http.ResponseWriter, r *http.Request) {
	report, err := h.reconciliation.Run(r.Context())
	if err != nil {
		h.fail(w, r, http.StatusInternalServerError, "failed-to-list", err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
