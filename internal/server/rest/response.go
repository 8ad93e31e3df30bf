package rest

import (
	"encoding/json"
	"net/http"

	"github.com/dmitrijs2005/geoledger/internal/server/schema"
)

type errorBody struct {
	Error string `json:"error"`
}

type issuesBody struct {
	Errors []schema.Issue `json:"errors"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError sends {"error": code}.
func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, errorBody{Error: code})
}

// writeIssues sends the validation issues with 400.
func writeIssues(w http.ResponseWriter, issues []schema.Issue) {
	writeJSON(w, http.StatusBadRequest, issuesBody{Errors: issues})
}
