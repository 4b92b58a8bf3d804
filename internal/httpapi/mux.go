package httpapi

import (
	"database/sql"
	"net/http"
)

func NewMux(db *sql.DB, sources HealthSources) *http.ServeMux {
	mux := http.NewServeMux()
	registerHealthcheck(mux, db, sources)
	return mux
}
