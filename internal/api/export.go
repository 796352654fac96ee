package api

import (
	"net/http"

	"github.com/hazyhaar/lifewheel/internal/export"
)

func (a *API) RegisterExportRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/export", a.handleExport)
	mux.HandleFunc("GET /api/export/checkins.csv", a.handleExportCheckinsCSV)
	mux.HandleFunc("GET /api/export/sleep.csv", a.handleExportSleepCSV)
}

func (a *API) handleExport(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	exporter := export.NewExporter(a.db)
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="lifewheel-export.json"`)
	if err := exporter.WriteJSON(w, claims.UserID); err != nil {
		storeError(w, "exporting data", err)
	}
}

func (a *API) handleExportCheckinsCSV(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	exporter := export.NewExporter(a.db)
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="checkins.csv"`)
	if err := exporter.WriteCheckinsCSV(w, claims.UserID); err != nil {
		storeError(w, "exporting checkins", err)
	}
}

func (a *API) handleExportSleepCSV(w http.ResponseWriter, r *http.Request) {
	claims := a.requireAuth(w, r)
	if claims == nil {
		return
	}
	exporter := export.NewExporter(a.db)
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="sleep.csv"`)
	if err := exporter.WriteSleepCSV(w, claims.UserID); err != nil {
		storeError(w, "exporting sleep", err)
	}
}
