package handlers

import (
	"encoding/base64"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/timbersport/ranking-system/middleware"
	"github.com/timbersport/ranking-system/services"
	"github.com/timbersport/ranking-system/sheets"
)

const dateLayout = "2006-01-02"

type UploadHandler struct {
	uploadService services.UploadService
}

func NewUploadHandler(uploadService services.UploadService) *UploadHandler {
	return &UploadHandler{uploadService: uploadService}
}

type previewRequest struct {
	// Raw holds CSV text, or the base64-encoded workbook when Filename
	// has an XLSX extension.
	Raw      string          `json:"raw"`
	Filename string          `json:"filename,omitempty"`
	Settings sheets.Settings `json:"settings"`
}

// Preview handles POST /uploads/preview. Nothing is persisted; the
// caller inspects competitors, warnings and errors before committing.
func (h *UploadHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if req.Raw == "" {
		badRequestResponse(w, r, errors.New("raw sheet content is required"))
		return
	}

	result, err := h.parse(req)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, result, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *UploadHandler) parse(req previewRequest) (sheets.ParseResult, error) {
	format := sheets.FormatCSV
	if req.Filename != "" {
		detected, err := sheets.DetectFormat(req.Filename)
		if err != nil {
			return sheets.ParseResult{}, err
		}
		format = detected
	}

	if format == sheets.FormatXLSX {
		data, err := base64.StdEncoding.DecodeString(req.Raw)
		if err != nil {
			return sheets.ParseResult{}, errors.New("workbook uploads must be base64-encoded")
		}
		return h.uploadService.PreviewWorkbook(data, req.Settings)
	}
	return h.uploadService.Preview(req.Raw, req.Settings), nil
}

type commitRequest struct {
	Name *string `json:"name,omitempty"`
	Date string  `json:"date"`

	Settings    sheets.Settings           `json:"settings"`
	Competitors []sheets.ParsedCompetitor `json:"competitors"`

	// Raw optionally carries the original sheet for archival.
	Raw      string `json:"raw,omitempty"`
	Filename string `json:"filename,omitempty"`
}

// Commit handles POST /uploads/commit: atomically persists a confirmed
// preview as a new tournament with results.
func (h *UploadHandler) Commit(w http.ResponseWriter, r *http.Request) {
	var req commitRequest
	if err := readJSON(w, r, &req); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var date time.Time
	if req.Date != "" {
		parsed, err := time.Parse(dateLayout, req.Date)
		if err != nil {
			badRequestResponse(w, r, errors.New("date must be formatted as YYYY-MM-DD"))
			return
		}
		date = parsed
	}

	input := services.CommitInput{
		Meta:        services.TournamentMeta{Name: req.Name, Date: date},
		Settings:    req.Settings,
		Competitors: req.Competitors,
		Filename:    req.Filename,
	}
	if req.Raw != "" {
		if data, err := base64.StdEncoding.DecodeString(req.Raw); err == nil {
			input.RawSheet = data
		} else {
			input.RawSheet = []byte(req.Raw)
		}
	}

	result, err := h.uploadService.Commit(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if userID, err := middleware.GetUserIDFromContext(r.Context()); err == nil {
		slog.Info("tournament committed",
			slog.Int("tournament_id", result.TournamentID), slog.Int("user_id", userID))
	}

	if err := writeJSON(w, http.StatusCreated, result, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
