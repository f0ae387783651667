package api

import (
	"context"
	"net/http"
	"time"

	"fleet-dispatch/internal/admin/report"
	"fleet-dispatch/internal/duty/domain"
	"fleet-dispatch/internal/shared/util"
)

func (h *Handler) GetOverview(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	overview, err := h.service.Overview(ctx)
	if err != nil {
		h.logger.Error("GetOverview", err)
		util.WriteJSONError(w, "failed to build overview", http.StatusInternalServerError)
		return
	}

	util.ResponseInJson(w, http.StatusOK, overview)
	h.logger.HTTP(http.StatusOK, time.Since(start), r.RemoteAddr, r.Method, r.URL.Path)
}

func (h *Handler) GetDutyRecords(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	filter := r.URL.Query().Get("filter")
	if filter == "" {
		filter = "all"
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	records, err := h.service.DutyRecords(ctx, filter)
	if err != nil {
		h.logger.Warn("GetDutyRecords", err.Error())
		util.WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if records == nil {
		records = []domain.Duty{}
	}

	util.ResponseInJson(w, http.StatusOK, map[string]interface{}{
		"filter":  filter,
		"records": records,
		"count":   len(records),
	})
	h.logger.HTTP(http.StatusOK, time.Since(start), r.RemoteAddr, r.Method, r.URL.Path)
}

// GetDaywiseReport serves the date-range report as JSON, or as an XLSX
// workbook when format=xlsx.
func (h *Handler) GetDaywiseReport(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if from == "" || to == "" {
		util.WriteJSONError(w, "from and to query parameters are required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	duties, err := h.service.DaywiseReport(ctx, from, to)
	if err != nil {
		h.logger.Warn("GetDaywiseReport", err.Error())
		util.WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	if r.URL.Query().Get("format") == "xlsx" {
		data, err := report.BuildDaywise(duties)
		if err != nil {
			h.logger.Error("GetDaywiseReport", err)
			util.WriteJSONError(w, "failed to build report", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="daywise_`+from+`_`+to+`.xlsx"`)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)

		h.logger.OK("GetDaywiseReport", "xlsx report exported: "+from+" to "+to)
		h.logger.HTTP(http.StatusOK, time.Since(start), r.RemoteAddr, r.Method, r.URL.Path)
		return
	}

	if duties == nil {
		duties = []domain.Duty{}
	}
	util.ResponseInJson(w, http.StatusOK, map[string]interface{}{
		"from":   from,
		"to":     to,
		"duties": duties,
		"count":  len(duties),
	})
	h.logger.HTTP(http.StatusOK, time.Since(start), r.RemoteAddr, r.Method, r.URL.Path)
}

func (h *Handler) GetDrivers(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	drivers, err := h.service.ListDrivers(ctx, r.URL.Query().Get("search"))
	if err != nil {
		h.logger.Error("GetDrivers", err)
		util.WriteJSONError(w, "failed to load drivers", http.StatusInternalServerError)
		return
	}

	util.ResponseInJson(w, http.StatusOK, map[string]interface{}{
		"drivers": drivers,
		"count":   len(drivers),
	})
	h.logger.HTTP(http.StatusOK, time.Since(start), r.RemoteAddr, r.Method, r.URL.Path)
}
