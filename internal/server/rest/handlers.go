package rest

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/geoledger/internal/common"
	"github.com/dmitrijs2005/geoledger/internal/logging"
	"github.com/dmitrijs2005/geoledger/internal/server/schema"
	"github.com/dmitrijs2005/geoledger/internal/server/services"
	"github.com/go-chi/chi/v5"
)

// maxJSONBody caps JSON request bodies.
const maxJSONBody = 1 << 20

type Handler struct {
	donations      *services.DonationService
	registry       *services.RegistryService
	evidence       *services.EvidenceService
	reconciliation *services.ReconciliationService
	logger         logging.Logger
}

func NewHandler(ds *services.DonationService, rs *services.RegistryService, es *services.EvidenceService,
	recon *services.ReconciliationService, l logging.Logger) *Handler {
	return &Handler{
		donations:      ds,
		registry:       rs,
		evidence:       es,
		reconciliation: recon,
		logger:         l,
	}
}

func (h *Handler) log(r *http.Request) logging.Logger {
	return logging.FromContext(r.Context(), h.logger)
}

// fail logs err and answers with a generic code. Internal error text never
// reaches the client.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, status int, code string, err error) {
	h.log(r).Error(r.Context(), code, "error", err)
	writeError(w, status, code)
}

func readBody(w http.ResponseWriter, r *http.Request) []byte {
	b, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err != nil {
		return nil
	}
	return b
}

// pathID parses the {id} URL parameter. ok is false for anything that is
// not an integer.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) CreateDonation(w http.ResponseWriter, r *http.Request) {
	res := schema.ParseDonation(readBody(w, r))
	if !res.OK() {
		writeIssues(w, res.Issues)
		return
	}

	d, err := h.donations.Create(r.Context(), res.Value)
	if err != nil {
		h.fail(w, r, http.StatusInternalServerError, "failed-to-create", err)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

func (h *Handler) ListDonations(w http.ResponseWriter, r *http.Request) {
	list, err := h.donations.List(r.Context())
	if err != nil {
		h.fail(w, r, http.StatusInternalServerError, "failed-to-list", err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) SetRecipientLocation(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "not-found")
		return
	}
	res := schema.ParseRecipientLocation(readBody(w, r))
	if !res.OK() {
		writeIssues(w, res.Issues)
		return
	}

	d, err := h.donations.SetRecipientLocation(r.Context(), id, res.Value)
	switch {
	case errors.Is(err, common.ErrorNotFound):
		writeError(w, http.StatusNotFound, "not-found")
	case err != nil:
		h.fail(w, r, http.StatusInternalServerError, "failed-update", err)
	default:
		writeJSON(w, http.StatusOK, d)
	}
}

func (h *Handler) AttachEvidence(w http.ResponseWriter, r *http.Request) {
	var body struct {
		EvidenceURL any `json:"evidence_url"`
	}
	_ = json.Unmarshal(readBody(w, r), &body)
	url, _ := body.EvidenceURL.(string)
	if url == "" {
		writeError(w, http.StatusBadRequest, "missing-url")
		return
	}
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "not-found")
		return
	}

	d, err := h.donations.AttachEvidence(r.Context(), id, url)
	switch {
	case errors.Is(err, common.ErrorNotFound):
		writeError(w, http.StatusNotFound, "not-found")
	case err != nil:
		h.fail(w, r, http.StatusInternalServerError, "failed-update", err)
	default:
		writeJSON(w, http.StatusOK, d)
	}
}

func (h *Handler) VerifyImpact(w http.ResponseWriter, r *http.Request) {
	res := schema.ParseVerify(readBody(w, r))
	if !res.OK() {
		writeIssues(w, res.Issues)
		return
	}

	out, err := h.donations.VerifyImpact(r.Context(), res.Value)
	switch {
	case errors.Is(err, common.ErrInvalidTransition):
		writeError(w, http.StatusConflict, "donation-frozen")
	case err != nil:
		h.fail(w, r, http.StatusInternalServerError, "failed-to-verify", err)
	default:
		writeJSON(w, http.StatusOK, out)
	}
}

// txDonationID accepts the donation id as a JSON number or numeric string.
// present is false when the field is missing, null, zero or empty.
func txDonationID(raw json.RawMessage) (id int64, present, valid bool) {
	var v any
	if len(raw) == 0 || json.Unmarshal(raw, &v) != nil {
		return 0, false, false
	}
	switch t := v.(type) {
	case float64:
		if t == 0 {
			return 0, false, false
		}
		if t != float64(int64(t)) {
			return 0, true, false
		}
		return int64(t), true, true
	case string:
		if t == "" {
			return 0, false, false
		}
		n, err := strconv.ParseInt(t, 10, 64)
		return n, true, err == nil
	case bool:
		return 0, t, false
	case nil:
		return 0, false, false
	}
	return 0, true, false
}

func (h *Handler) TxStatus(w http.ResponseWriter, r *http.Request) {
	hash := chi.URLParam(r, "hash")
	var body struct {
		DonationID json.RawMessage `json:"donation_id"`
	}
	_ = json.Unmarshal(readBody(w, r), &body)

	id, present, valid := txDonationID(body.DonationID)
	if !present {
		writeError(w, http.StatusBadRequest, "missing-donation")
		return
	}
	if !valid {
		writeError(w, http.StatusNotFound, "not-found")
		return
	}

	d, err := h.donations.ConfirmTx(r.Context(), hash, id)
	switch {
	case errors.Is(err, common.ErrorNotFound):
		writeError(w, http.StatusNotFound, "not-found")
	case errors.Is(err, common.ErrTxNotConfirmed):
		writeError(w, http.StatusConflict, "tx-not-confirmed")
	case errors.Is(err, common.ErrAnchorUnavailable):
		h.fail(w, r, http.StatusBadGateway, "tx-status-unavailable", err)
	case err != nil:
		h.fail(w, r, http.StatusInternalServerError, "failed-update", err)
	default:
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "hash": hash, "donation": d})
	}
}
