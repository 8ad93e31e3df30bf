package rest

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/geoledger/internal/common"
	"github.com/dmitrijs2005/geoledger/internal/server/schema"
)

func (h *Handler) CreateNGO(w http.ResponseWriter, r *http.Request) {
	res := schema.ParseNGO(readBody(w, r))
	if !res.OK() {
		writeIssues(w, res.Issues)
		return
	}
	n, err := h.registry.CreateNGO(r.Context(), res.Value)
	if err != nil {
		h.fail(w, r, http.StatusInternalServerError, "failed-to-create", err)
		return
	}
	writeJSON(w, http.StatusCreated, n)
}

func (h *Handler) ListNGOs(w http.ResponseWriter, r *http.Request) {
	list, err := h.registry.ListNGOs(r.Context())
	if err != nil {
		h.fail(w, r, http.StatusInternalServerError, "failed-to-list", err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	res := schema.ParseProject(readBody(w, r))
	if !res.OK() {
		writeIssues(w, res.Issues)
		return
	}
	p, err := h.registry.CreateProject(r.Context(), res.Value)
	if err != nil {
		h.fail(w, r, http.StatusInternalServerError, "failed-to-create", err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	list, err := h.registry.ListProjects(r.Context())
	if err != nil {
		h.fail(w, r, http.StatusInternalServerError, "failed-to-list", err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) SetNGOVerification(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "not-found")
		return
	}
	res := schema.ParseVerification(readBody(w, r))
	if !res.OK() {
		writeIssues(w, res.Issues)
		return
	}

	n, err := h.registry.SetNGOVerification(r.Context(), id, res.Value)
	switch {
	case errors.Is(err, common.ErrorNotFound):
		writeError(w, http.StatusNotFound, "not-found")
	case err != nil:
		h.fail(w, r, http.StatusInternalServerError, "failed-update", err)
	default:
		writeJSON(w, http.StatusOK, n)
	}
}
