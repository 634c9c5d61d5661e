package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/pvyield/pvyield/pkg/common"
	"github.com/pvyield/pvyield/pkg/daterange"
	"github.com/pvyield/pvyield/pkg/log"
	"github.com/pvyield/pvyield/pkg/report"
	"github.com/pvyield/pvyield/pkg/types"
)

const maxRequestBody = 1 << 20

type windowsResponse struct {
	Years   int            `json:"years"`
	Windows []types.Window `json:"windows"`
}

func (s *Server) handleWindows(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	years, err := daterange.ParseYears(r.URL.Query().Get("years"))
	if err != nil {
		log.Ctx(ctx).WarnContext(ctx, "invalid years", slog.Any("error", err))
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	windows, err := s.estimator.Windows(years)
	if err != nil {
		writeError(ctx, w, "failed to generate windows", err)
		return
	}
	writeJSON(w, windowsResponse{Years: years, Windows: windows})
}

func (s *Server) handleEstimate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	format := r.URL.Query().Get("format")
	switch format {
	case "", "json", "csv", "xlsx":
	default:
		writeJSONError(w, fmt.Sprintf("unsupported format: %s", format), http.StatusBadRequest)
		return
	}

	var req types.EstimateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&req); err != nil {
		log.Ctx(ctx).WarnContext(ctx, "failed to decode estimate request", slog.Any("error", err))
		writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if s.estimateTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.estimateTimeout)
		defer cancel()
	}

	est, err := s.estimator.Estimate(ctx, req)
	if err != nil {
		writeError(ctx, w, "failed to run estimate", err)
		return
	}

	switch format {
	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", est.ID+".csv"))
		if err := report.WriteCSV(w, est.Buckets); err != nil {
			log.Ctx(ctx).ErrorContext(ctx, "failed to write csv", slog.Any("error", err))
			panic(http.ErrAbortHandler)
		}
	case "xlsx":
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", est.ID+".xlsx"))
		if err := report.WriteWorkbook(w, est.Buckets, est.Yearly, est.Monthly); err != nil {
			log.Ctx(ctx).ErrorContext(ctx, "failed to write workbook", slog.Any("error", err))
			panic(http.ErrAbortHandler)
		}
	default:
		writeJSON(w, est)
	}
}

// writeError maps an estimator error to a status code.
func writeError(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	var httpErr *common.HTTPError
	switch {
	case errors.Is(err, types.ErrInvalidArgument):
		log.Ctx(ctx).WarnContext(ctx, msg, slog.Any("error", err))
		writeJSONError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, types.ErrTypeMismatch):
		log.Ctx(ctx).WarnContext(ctx, msg, slog.Any("error", err))
		writeJSONError(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.As(err, &httpErr):
		log.Ctx(ctx).ErrorContext(ctx, msg, slog.Int("upstreamStatus", httpErr.StatusCode), slog.Any("error", err))
		writeJSONError(w, "weather provider request failed", http.StatusBadGateway)
	case errors.Is(err, context.DeadlineExceeded):
		log.Ctx(ctx).ErrorContext(ctx, msg, slog.Any("error", err))
		writeJSONError(w, "estimate timed out", http.StatusGatewayTimeout)
	default:
		log.Ctx(ctx).ErrorContext(ctx, msg, slog.Any("error", err))
		writeJSONError(w, "internal server error", http.StatusInternalServerError)
	}
}
