package rest

import (
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/dmitrijs2005/geoledger/internal/common"
	"github.com/dmitrijs2005/geoledger/internal/server/schema"
	"github.com/dmitrijs2005/geoledger/internal/server/services"
	"github.com/go-chi/chi/v5"
)

// multipartSlack covers the multipart framing around the file part.
const multipartSlack = 64 << 10

// evidenceError maps evidence service errors onto responses.
func (h *Handler) evidenceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrStorageNotConfigured):
		writeError(w, http.StatusInternalServerError, "storage-not-configured")
	case errors.Is(err, common.ErrFileTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, "file-too-large")
	case errors.Is(err, common.ErrUnsupportedMediaType):
		writeError(w, http.StatusUnsupportedMediaType, "unsupported-media-type")
	case errors.Is(err, services.ErrInvalidCID):
		writeError(w, http.StatusBadRequest, "invalid-cid")
	case errors.Is(err, common.ErrorNotFound):
		writeError(w, http.StatusNotFound, "not-found")
	default:
		h.fail(w, r, http.StatusInternalServerError, "failed-to-pin", err)
	}
}

func (h *Handler) UploadEvidence(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, common.MaxEvidenceFileSize+multipartSlack)
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "file-too-large")
			return
		}
		writeError(w, http.StatusBadRequest, "no-file")
		return
	}
	defer file.Close()

	body, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "no-file")
		return
	}

	mimetype, _, err := mime.ParseMediaType(header.Header.Get("Content-Type"))
	if err != nil {
		mimetype = http.DetectContentType(body)
	}

	res, err := h.evidence.Upload(r.Context(), header.Filename, mimetype, body)
	if err != nil {
		h.evidenceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) PinEvidence(w http.ResponseWriter, r *http.Request) {
	res := schema.ParseEvidence(readBody(w, r))
	if !res.OK() {
		writeIssues(w, res.Issues)
		return
	}
	out, err := h.evidence.PinContent(r.Context(), res.Value.DonationID, res.Value.Content)
	if err != nil {
		h.evidenceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) RetrieveEvidence(w http.ResponseWriter, r *http.Request) {
	out, err := h.evidence.Retrieve(chi.URLParam(r, "cid"))
	if err != nil {
		h.evidenceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) EvidenceHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.evidence.Health(r.Context()))
}

func (h *Handler) PresignEvidence(w http.ResponseWriter, r *http.Request) {
	out, err := h.evidence.Presign(r.Context())
	if err != nil {
		h.evidenceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
