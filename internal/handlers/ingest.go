package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/openhockey/pbp-engine/internal/models"
	"github.com/openhockey/pbp-engine/internal/worker"
)

// IngestGame handles POST /api/v1/games
// Accepts one game report as JSON and queues it for parsing.
func (h *Handler) IngestGame(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)
	defer r.Body.Close()

	var report models.GameReport
	if err := json.NewDecoder(r.Body).Decode(&report); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.errorResponse(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		h.logger.Warnw("Failed to decode game report", "error", err)
		h.errorResponse(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if err := h.validateReport(&report); err != nil {
		h.logger.Warnw("Validation failed for game report", "game_id", report.GameID, "error", err)
		h.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.pool.Submit(&report); err != nil {
		h.logger.Warnw("Game report refused", "game_id", report.GameID, "error", err)
		msg := "Worker queue full, retry later"
		if errors.Is(err, worker.ErrQueueClosed) {
			msg = "Server shutting down"
		}
		h.errorResponse(w, http.StatusServiceUnavailable, msg)
		return
	}

	h.logger.Infow("Game report accepted", "game_id", report.GameID, "rows", len(report.Rows), "feed", len(report.Feed))
	h.jsonResponse(w, http.StatusAccepted, map[string]interface{}{
		"status":  "accepted",
		"game_id": report.GameID,
	})
}

// validateReport runs the struct tags and the checks they cannot express
func (h *Handler) validateReport(report *models.GameReport) error {
	if err := h.validator.Struct(report); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fe.Namespace()+" ("+fe.Tag()+")")
			}
			return errors.New("invalid fields: " + strings.Join(fields, ", "))
		}
		return err
	}
	if strings.EqualFold(report.Home.Code, report.Road.Code) || report.Home.ID == report.Road.ID {
		return errors.New("home and road teams must differ")
	}
	return nil
}
