package handlers

import (
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/calldesk/internal/entity"
	"github.com/xavierca1/calldesk/internal/usecase"
)

const maxImportSize = 10 << 20

type LeadHandler struct {
	Desk     *usecase.Desk
	Import   *usecase.ImportLeadsUseCase
	Company  string
	Location *time.Location
}

func NewLeadHandler(desk *usecase.Desk, importUC *usecase.ImportLeadsUseCase, company string, loc *time.Location) *LeadHandler {
	if loc == nil {
		loc = time.Local
	}
	return &LeadHandler{
		Desk:     desk,
		Import:   importUC,
		Company:  company,
		Location: loc,
	}
}

type LeadListResponse struct {
	Leads []entity.Lead    `json:"leads"`
	Stats entity.LeadStats `json:"stats"`
}

type ImportResponse struct {
	LeadListResponse
	Summary usecase.ImportSummary `json:"summary"`
}

type LeadResponse struct {
	Lead  entity.Lead      `json:"lead"`
	Stats entity.LeadStats `json:"stats"`
}

type NoAnswerResponse struct {
	LeadResponse
	Mailto string `json:"mailto"`
}

type NotesRequest struct {
	Notes string `json:"notes"`
}

type BookRequest struct {
	Date  string `json:"date"`
	Time  string `json:"time"`
	Notes string `json:"notes"`
}

// List (GET /leads)
func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	var resp LeadListResponse
	err := h.Desk.Do(r.Context(), func(e *usecase.LeadEngine) error {
		resp = LeadListResponse{Leads: e.Leads(), Stats: e.Stats()}
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Stats (GET /stats)
func (h *LeadHandler) Stats(w http.ResponseWriter, r *http.Request) {
	var stats entity.LeadStats
	err := h.Desk.Do(r.Context(), func(e *usecase.LeadEngine) error {
		stats = e.Stats()
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// ImportFile (POST /leads/import) replaces the list with the uploaded sheet.
func (h *LeadHandler) ImportFile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportSize)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeFailure(w, http.StatusBadRequest, usecase.CodeValidation, "multipart field 'file' is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeFailure(w, http.StatusBadRequest, usecase.CodeValidation, "could not read uploaded file")
		return
	}

	out, err := h.Import.Execute(r.Context(), usecase.ImportLeadsInput{Filename: header.Filename, Data: data})
	if err != nil {
		writeError(w, err)
		return
	}

	var resp ImportResponse
	err = h.Desk.Do(r.Context(), func(e *usecase.LeadEngine) error {
		if err := e.ReplaceAll(r.Context(), out.Leads); err != nil {
			return err
		}
		resp = ImportResponse{
			LeadListResponse: LeadListResponse{Leads: e.Leads(), Stats: e.Stats()},
			Summary:          out.Summary,
		}
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// Clear (DELETE /leads) starts a new, empty list.
func (h *LeadHandler) Clear(w http.ResponseWriter, r *http.Request) {
	var resp LeadListResponse
	err := h.Desk.Do(r.Context(), func(e *usecase.LeadEngine) error {
		if err := e.ReplaceAll(r.Context(), nil); err != nil {
			return err
		}
		resp = LeadListResponse{Leads: e.Leads(), Stats: e.Stats()}
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Book (POST /leads/{id}/book)
func (h *LeadHandler) Book(w http.ResponseWriter, r *http.Request) {
	var req BookRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	at, err := usecase.ParseBookingSlot(req.Date, req.Time, h.Location)
	if err != nil {
		writeError(w, err)
		return
	}

	h.transition(w, r, func(e *usecase.LeadEngine, id string) (entity.Lead, error) {
		return e.Book(r.Context(), id, at, req.Notes)
	})
}

// NoAnswer (POST /leads/{id}/no-answer) also returns the missed-call mailto link.
func (h *LeadHandler) NoAnswer(w http.ResponseWriter, r *http.Request) {
	var req NotesRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	id := chi.URLParam(r, "id")
	var resp NoAnswerResponse
	err := h.Desk.Do(r.Context(), func(e *usecase.LeadEngine) error {
		lead, err := e.NoAnswer(r.Context(), id, req.Notes)
		if err != nil {
			return err
		}
		mailto, err := usecase.MissedCallMailto(lead, e.Session().User.Name, h.Company)
		if err != nil {
			return err
		}
		resp = NoAnswerResponse{
			LeadResponse: LeadResponse{Lead: lead, Stats: e.Stats()},
			Mailto:       mailto,
		}
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Cancel (POST /leads/{id}/cancel)
func (h *LeadHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	var req NotesRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	h.transition(w, r, func(e *usecase.LeadEngine, id string) (entity.Lead, error) {
		return e.Cancel(r.Context(), id, req.Notes)
	})
}

// Reschedule (POST /leads/{id}/reschedule)
func (h *LeadHandler) Reschedule(w http.ResponseWriter, r *http.Request) {
	var req NotesRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	h.transition(w, r, func(e *usecase.LeadEngine, id string) (entity.Lead, error) {
		return e.Reschedule(r.Context(), id, req.Notes)
	})
}

func (h *LeadHandler) transition(w http.ResponseWriter, r *http.Request, apply func(*usecase.LeadEngine, string) (entity.Lead, error)) {
	id := chi.URLParam(r, "id")
	var resp LeadResponse
	err := h.Desk.Do(r.Context(), func(e *usecase.LeadEngine) error {
		lead, err := apply(e, id)
		if err != nil {
			return err
		}
		resp = LeadResponse{Lead: lead, Stats: e.Stats()}
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
