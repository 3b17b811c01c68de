package handler

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"incentive-service/internal/config"
	"incentive-service/internal/fileio"
	"incentive-service/internal/incentive/catalog"
	"incentive-service/internal/incentive/model"
	incSvc "incentive-service/internal/incentive/service"
	"incentive-service/internal/store"
)

// Deps are the collaborators a handler needs. Store may be nil (persistence
// disabled); each request builds its own engine state, so concurrent uploads
// never mix rows.
type Deps struct {
	Cfg     config.Config
	Catalog *catalog.Catalog
	Aliases incSvc.Aliases
	Store   *store.Store
	Logger  zerolog.Logger
}

// Parse handles POST /incentives/parse: one workbook upload in, the full
// parse result out.
func Parse(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log := reqLogger(d.Logger, r)

		res, ok := parseUpload(w, r, d, log)
		if !ok {
			return
		}
		warning := persist(r, d, res, log)

		writeJSON(w, http.StatusOK, parseResponse{Result: res, Warning: warning})
		log.Info().
			Int("salespeople", len(res.Metrics)).
			Int("visits", len(res.Visits)).
			Int("rows", res.Diagnostics.RowsProcessed).
			Dur("elapsed", time.Since(start)).
			Msg("parse done")
	}
}

// Report handles POST /incentives/report: same upload, plus timeframe=all|
// day|week and date=YYYY-MM-DD, returning the filtered view.
func Report(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log := reqLogger(d.Logger, r)

		mode, ok := incSvc.ParseTimeframeMode(r.FormValue("timeframe"))
		if !ok {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "bad_timeframe"})
			return
		}
		anchor := r.FormValue("date")
		if mode != incSvc.TimeframeAll {
			if _, err := time.Parse("2006-01-02", anchor); err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]any{"error": "bad_date"})
				return
			}
		}

		res, okParse := parseUpload(w, r, d, log)
		if !okParse {
			return
		}
		views := incSvc.ApplyTimeframe(res.Metrics, mode, anchor)

		writeJSON(w, http.StatusOK, reportResponse{
			Timeframe:   string(mode),
			Anchor:      anchor,
			Salespeople: views,
			Dates:       res.Dates,
			DateLabels:  res.DateLabels,
			Diagnostics: res.Diagnostics,
		})
		log.Info().
			Str("timeframe", string(mode)).
			Str("anchor", anchor).
			Dur("elapsed", time.Since(start)).
			Msg("report done")
	}
}

type parseResponse struct {
	*model.Result
	Warning string `json:"warning,omitempty"`
}

type reportResponse struct {
	Timeframe   string                `json:"timeframe"`
	Anchor      string                `json:"anchor,omitempty"`
	Salespeople []model.TimeframeView `json:"salespeople"`
	Dates       []string              `json:"dates"`
	DateLabels  map[string]string     `json:"dateLabels"`
	Diagnostics model.Diagnostics     `json:"diagnostics"`
}

// parseUpload reads the multipart upload and runs one engine pass. On any
// failure it writes the response itself and returns ok=false.
func parseUpload(w http.ResponseWriter, r *http.Request, d Deps, log zerolog.Logger) (*model.Result, bool) {
	defer r.Body.Close()
	if err := r.ParseMultipartForm(int64(d.Cfg.MaxUploadMB) << 20); err != nil {
		http.Error(w, "bad multipart form: "+err.Error(), http.StatusBadRequest)
		return nil, false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file: "+err.Error(), http.StatusBadRequest)
		return nil, false
	}
	defer file.Close()

	rows, err := fileio.ReadAny(file, header.Filename)
	if err != nil {
		http.Error(w, "failed to read workbook: "+err.Error(), http.StatusBadRequest)
		return nil, false
	}

	res, err := incSvc.Parse(rows, d.Catalog, incSvc.Options{
		HeaderRow: atoi(r.FormValue("header_row"), d.Cfg.HeaderRow),
		Aliases:   d.Aliases,
	})
	if err != nil {
		log.Warn().Err(err).Str("file", header.Filename).Msg("parse failed")
		writeEngineError(w, err)
		return nil, false
	}
	return res, true
}

// persist hands visit aggregates to the store when one is configured. A
// storage failure is a warning on the response, never a parse failure.
func persist(r *http.Request, d Deps, res *model.Result, log zerolog.Logger) string {
	if d.Store == nil {
		return ""
	}
	if err := d.Store.UpsertVisits(r.Context(), res.Visits); err != nil {
		log.Error().Err(err).Msg("visit upsert failed")
		return "visits were parsed but not persisted: " + err.Error()
	}
	return ""
}

func reqLogger(logger zerolog.Logger, r *http.Request) zerolog.Logger {
	if rid := r.Header.Get("X-Request-ID"); rid != "" {
		return logger.With().Str("req_id", rid).Logger()
	}
	return logger
}
