package handlers

import (
	"encoding/json"
	"net/http"
)

// GetHome returns the singleton home page content.
func (a *App) GetHome(w http.ResponseWriter, r *http.Request) {
	page, err := a.Home.Get(r.Context())
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, page)
}

// UpdateHome replaces the singleton home page content.
func (a *App) UpdateHome(w http.ResponseWriter, r *http.Request) {
	page, err := a.Home.Get(r.Context())
	if err != nil {
		a.domainError(w, err)
		return
	}

	var req struct {
		Title       string  `json:"title"`
		Intro       string  `json:"intro"`
		HeroMediaID *string `json:"heroMediaId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "validation_error", "invalid request body")
		return
	}

	page.Title = req.Title
	page.Intro = req.Intro
	page.HeroMediaID = req.HeroMediaID

	if err := a.Home.Update(r.Context(), page); err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, page)
}
