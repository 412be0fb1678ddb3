package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	appLog "holical/internal/log"
	"holical/internal/model"
	"holical/internal/store"
)

const (
	maxBodyBytes = 1 << 20

	// maxExpandDays bounds /events/expanded windows.
	maxExpandDays = 366
)

func (s *Server) storeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrInvalidEvent):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		appLog.Error("event store failure", err)
		writeError(w, http.StatusInternalServerError, "event store failure")
	}
}

func decodeEvent(w http.ResponseWriter, r *http.Request) (model.Event, bool) {
	var ev model.Event
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&ev); err != nil {
		writeError(w, http.StatusBadRequest, "invalid event JSON: "+err.Error())
		return ev, false
	}
	return ev, true
}

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	evs, err := s.deps.Store.List(r.Context())
	if err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": evs, "total_count": len(evs)})
}

func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	ev, ok := decodeEvent(w, r)
	if !ok {
		return
	}
	ev.ID = ""
	ev.Source = ""
	created, err := s.deps.Store.Create(r.Context(), ev)
	if err != nil {
		s.storeError(w, err)
		return
	}
	w.Header().Set("Location", "/api/v1/events/"+created.ID)
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	ev, err := s.deps.Store.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

func (s *Server) handleUpdateEvent(w http.ResponseWriter, r *http.Request) {
	ev, ok := decodeEvent(w, r)
	if !ok {
		return
	}
	ev.ID = r.PathValue("id")
	updated, err := s.deps.Store.Update(r.Context(), ev)
	if err != nil {
		s.storeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Store.Delete(r.Context(), r.PathValue("id")); err != nil {
		s.storeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type dateRange struct {
	StartDate model.Date `json:"start_date"`
	EndDate   model.Date `json:"end_date"`
}

type expandedResponse struct {
	Events     []model.Occurrence `json:"events"`
	DateRange  dateRange          `json:"date_range"`
	TotalCount int                `json:"total_count"`
}

// handleExpandedEvents returns concrete occurrences in a window.
//
// GET /api/v1/events/expanded?start_date=YYYY-MM-DD&end_date=YYYY-MM-DD
//
// Both bounds default to the current month.
func (s *Server) handleExpandedEvents(w http.ResponseWriter, r *http.Request) {
	today := model.DateOf(s.deps.Now().In(s.location()))
	start := model.NewDate(today.Year, today.Month, 1)
	end := model.NewDate(today.Year, today.Month, model.DaysIn(today.Year, today.Month))

	q := r.URL.Query()
	var err error
	if v := q.Get("start_date"); v != "" {
		if start, err = model.ParseDate(v); err != nil {
			writeError(w, http.StatusBadRequest, "start_date must be YYYY-MM-DD")
			return
		}
	}
	if v := q.Get("end_date"); v != "" {
		if end, err = model.ParseDate(v); err != nil {
			writeError(w, http.StatusBadRequest, "end_date must be YYYY-MM-DD")
			return
		}
	}
	if end.Before(start) {
		writeError(w, http.StatusBadRequest, "end_date is before start_date")
		return
	}
	if start.DaysUntil(end) > maxExpandDays {
		writeError(w, http.StatusBadRequest, "date range is limited to one year")
		return
	}

	evs, err := s.deps.Store.EventsForRange(r.Context(), start, end)
	if err != nil {
		s.storeError(w, err)
		return
	}
	occ := s.deps.Assembler.ExpandEvents(evs, start, end)
	writeJSON(w, http.StatusOK, expandedResponse{
		Events:     occ,
		DateRange:  dateRange{StartDate: start, EndDate: end},
		TotalCount: len(occ),
	})
}

func (s *Server) location() *time.Location {
	if s.cfg == nil {
		return time.Local
	}
	return s.cfg.Location()
}
