package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/quietline/dopebook/internal/domain"
	"github.com/quietline/dopebook/internal/dope"
)

// RecordStore is the persistence surface the API handlers need beyond the
// assembler and saver.
type RecordStore interface {
	Ping(ctx context.Context) error
	ListChronographSessions(ctx context.Context, owner string) ([]domain.ChronographSession, error)
	ListDopeSessions(ctx context.Context, owner string) ([]domain.DopeSession, error)
	GetDopeSession(ctx context.Context, id string) (domain.DopeSession, error)
	ListShotDetails(ctx context.Context, dopeSessionID string) ([]domain.DopeShotDetail, error)
	DeleteDopeSession(ctx context.Context, id string) error
	CreateRange(ctx context.Context, r domain.RangeRecord) error
}

// stagingView is the API shape of a live staging session.
type stagingView struct {
	StagingID string                    `json:"staging_id"`
	Chrono    domain.ChronographSession `json:"chrono_session"`
	Sources   dope.SelectedSources      `json:"sources"`
	Rows      []dope.StagingRow         `json:"rows"`
}

func viewOf(s *dope.StagingSession) stagingView {
	return stagingView{
		StagingID: s.ID(),
		Chrono:    s.Chrono(),
		Sources:   s.Sources(),
		Rows:      s.Rows(),
	}
}

func (s *Server) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), s.requestTimeout)
}

func (s *Server) handleBeginStaging(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ChronoSessionID string `json:"chrono_session_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}
	if req.ChronoSessionID == "" {
		writeError(w, http.StatusBadRequest, errors.New("chrono_session_id is required"))
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	staged, err := s.assembler.Begin(ctx, req.ChronoSessionID)
	if err != nil {
		writeDopeError(w, err)
		return
	}
	s.staging.Put(staged)
	writeJSON(w, http.StatusCreated, viewOf(staged))
}

func (s *Server) handleRestage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DopeSessionID string `json:"dope_session_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}
	if req.DopeSessionID == "" {
		writeError(w, http.StatusBadRequest, errors.New("dope_session_id is required"))
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	staged, err := s.assembler.Restage(ctx, req.DopeSessionID)
	if err != nil {
		writeDopeError(w, err)
		return
	}
	s.staging.Put(staged)
	writeJSON(w, http.StatusCreated, viewOf(staged))
}

func (s *Server) handleGetStaging(w http.ResponseWriter, r *http.Request) {
	staged, ok := s.staging.Get(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, errors.New("staging session not found"))
		return
	}
	writeJSON(w, http.StatusOK, viewOf(staged))
}

// sourceRequest selects or clears one source on a staging session.
type sourceRequest struct {
	Source string `json:"source"` // range | weather_source | rifle | ammo
	ID     string `json:"id,omitempty"`
	Clear  bool   `json:"clear,omitempty"`
}

func (s *Server) handleSelectSource(w http.ResponseWriter, r *http.Request) {
	staged, ok := s.staging.Get(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, errors.New("staging session not found"))
		return
	}

	var req sourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}
	if !req.Clear && req.ID == "" {
		writeError(w, http.StatusBadRequest, errors.New("id is required unless clear is set"))
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	var err error
	switch req.Source {
	case "range":
		if req.Clear {
			s.assembler.ClearRange(staged)
		} else {
			err = s.assembler.SelectRange(ctx, staged, req.ID)
		}
	case "weather_source":
		if req.Clear {
			s.assembler.ClearWeatherSource(staged)
		} else {
			err = s.assembler.SelectWeatherSource(ctx, staged, req.ID)
		}
	case "rifle":
		if req.Clear {
			s.assembler.ClearRifle(staged)
		} else {
			err = s.assembler.SelectRifle(ctx, staged, req.ID)
		}
	case "ammo":
		if req.Clear {
			s.assembler.ClearAmmo(staged)
		} else {
			err = s.assembler.SelectAmmo(ctx, staged, req.ID)
		}
	default:
		writeError(w, http.StatusBadRequest, fmt.Errorf("unknown source %q", req.Source))
		return
	}
	if err != nil {
		writeDopeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(staged))
}

func (s *Server) handleEditRow(w http.ResponseWriter, r *http.Request) {
	staged, ok := s.staging.Get(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, errors.New("staging session not found"))
		return
	}

	shotNumber, err := strconv.Atoi(r.PathValue("shot"))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid shot number: %w", err))
		return
	}

	var edit dope.RowEdit
	if err := json.NewDecoder(r.Body).Decode(&edit); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}

	if err := staged.EditRow(shotNumber, edit); err != nil {
		writeDopeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewOf(staged))
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	staged, ok := s.staging.Get(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, errors.New("staging session not found"))
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	result, err := s.saver.Save(ctx, staged)
	if err != nil {
		writeDopeError(w, err)
		return
	}
	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	writeJSON(w, status, result)
}

func (s *Server) handleDiscardStaging(w http.ResponseWriter, r *http.Request) {
	s.staging.Remove(r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListChronoSessions(w http.ResponseWriter, r *http.Request) {
	owner := r.URL.Query().Get("owner")
	if owner == "" {
		writeError(w, http.StatusBadRequest, errors.New("owner is required"))
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	sessions, err := s.store.ListChronographSessions(ctx, owner)
	if err != nil {
		writeDopeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"sessions": sessions})
}

func (s *Server) handleListDopeSessions(w http.ResponseWriter, r *http.Request) {
	owner := r.URL.Query().Get("owner")
	if owner == "" {
		writeError(w, http.StatusBadRequest, errors.New("owner is required"))
		return
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	sessions, err := s.store.ListDopeSessions(ctx, owner)
	if err != nil {
		writeDopeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"sessions": sessions})
}

func (s *Server) handleGetDopeSession(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.requestContext(r)
	defer cancel()

	id := r.PathValue("id")
	session, err := s.store.GetDopeSession(ctx, id)
	if err != nil {
		writeDopeError(w, err)
		return
	}
	details, err := s.store.ListShotDetails(ctx, id)
	if err != nil {
		writeDopeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"session": session,
		"details": details,
	})
}

func (s *Server) handleDeleteDopeSession(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.requestContext(r)
	defer cancel()

	if err := s.store.DeleteDopeSession(ctx, r.PathValue("id")); err != nil {
		writeDopeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// createRangeRequest accepts either explicit geometry values or coordinate
// pairs; when both firing and target points are present the azimuth,
// elevation angle, and distance are derived from them.
type createRangeRequest struct {
	Owner       string  `json:"owner"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`

	AzimuthDeg        *float64 `json:"azimuth_deg,omitempty"`
	ElevationAngleDeg *float64 `json:"elevation_angle_deg,omitempty"`
	DistanceM         *float64 `json:"distance_m,omitempty"`

	Firing *domain.Point `json:"firing,omitempty"`
	Target *domain.Point `json:"target,omitempty"`
}

func (s *Server) handleCreateRange(w http.ResponseWriter, r *http.Request) {
	var req createRangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}
	if req.Owner == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, errors.New("owner and name are required"))
		return
	}

	rec := domain.RangeRecord{
		ID:                uuid.NewString(),
		Owner:             req.Owner,
		Name:              req.Name,
		Description:       req.Description,
		AzimuthDeg:        req.AzimuthDeg,
		ElevationAngleDeg: req.ElevationAngleDeg,
		DistanceM:         req.DistanceM,
	}
	if req.Firing != nil && req.Target != nil {
		rec.FiringLat = &req.Firing.Lat
		rec.FiringLon = &req.Firing.Lon
		rec.FiringAltitudeM = &req.Firing.AltitudeM
		rec.TargetLat = &req.Target.Lat
		rec.TargetLon = &req.Target.Lon
		rec.TargetAltitudeM = &req.Target.AltitudeM

		g := domain.RangeGeometry(*req.Firing, *req.Target)
		rec.AzimuthDeg = &g.AzimuthDeg
		rec.ElevationAngleDeg = &g.ElevationAngleDeg
		rec.DistanceM = &g.DistanceM
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()

	if err := s.store.CreateRange(ctx, rec); err != nil {
		writeDopeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// writeDopeError maps engine errors onto HTTP statuses.
func writeDopeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, dope.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, dope.ErrNoShots),
		errors.Is(err, dope.ErrNoStagedRows),
		errors.Is(err, dope.ErrUnknownShot):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	}
	writeError(w, status, err)
}
