package server

import (
	"bytes"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/sliderule/pkg/buildinfo"
	"github.com/matzehuels/sliderule/pkg/division"
	"github.com/matzehuels/sliderule/pkg/errors"
	"github.com/matzehuels/sliderule/pkg/instrument"
	"github.com/matzehuels/sliderule/pkg/pipeline"
	"github.com/matzehuels/sliderule/pkg/session"
	"github.com/matzehuels/sliderule/pkg/sliderule"
)

var contentTypes = map[string]string{
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
	pipeline.FormatJSON: "application/json",
}

type healthResponse struct {
	Status   string         `json:"status"`
	Build    buildinfo.Info `json:"build"`
	Sessions int            `json:"sessions"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Build: buildinfo.Get(), Sessions: s.store.Len()})
}

type divisionsResponse struct {
	Divisions []division.Division         `json:"divisions"`
	RuleSets  map[string]division.RuleSet `json:"rule_sets"`
}

func (s *Server) handleDivisions(w http.ResponseWriter, r *http.Request) {
	resp := divisionsResponse{
		Divisions: division.All(),
		RuleSets:  make(map[string]division.RuleSet),
	}
	for _, name := range division.RuleSetNames() {
		rs, _ := division.RuleSetByName(name)
		resp.RuleSets[name] = rs
	}
	writeJSON(w, http.StatusOK, resp)
}

// sessionView is the JSON representation of a session.
type sessionView struct {
	ID             string              `json:"id"`
	Name           string              `json:"name"`
	InstrumentHash string              `json:"instrument_hash"`
	CreatedAt      time.Time           `json:"created_at"`
	ExpiresAt      time.Time           `json:"expires_at"`
	DeveloperMode  bool                `json:"developer_mode"`
	Resetting      bool                `json:"resetting"`
	Layout         sliderule.Layout    `json:"layout"`
	Labels         []sliderule.Label   `json:"labels"`
	Readings       []sliderule.Reading `json:"readings"`
	ExactReadings  []sliderule.Reading `json:"exact_readings"`
}

func viewOf(sess *session.Session) sessionView {
	snap := sess.Rule.Snapshot()
	return sessionView{
		ID:             sess.ID,
		Name:           sess.Meta.Name,
		InstrumentHash: sess.Meta.InstrumentHash,
		CreatedAt:      sess.CreatedAt,
		ExpiresAt:      sess.ExpiresAt(),
		DeveloperMode:  snap.DeveloperMode,
		Resetting:      snap.Resetting,
		Layout:         snap.Layout,
		Labels:         snap.Labels,
		Readings:       snap.Readings,
		ExactReadings:  snap.ExactReadings,
	}
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBodyBytes))
	if err != nil {
		writeError(w, s.logger, errors.Wrap(errors.ErrCodeInvalidInput, err, "read request body"))
		return
	}

	spec := instrument.Classic()
	if len(bytes.TrimSpace(body)) > 0 {
		if spec, err = instrument.Parse(body); err != nil {
			writeError(w, s.logger, err)
			return
		}
	}

	opts := pipeline.Options{Instrument: spec}
	rule, hash, err := s.runner.Build(r.Context(), opts)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	sess, err := s.store.Create(r.Context(), rule, session.Meta{Instrument: spec, Name: spec.Name, InstrumentHash: hash})
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	w.Header().Set("Location", "/sessions/"+sess.ID)
	writeJSON(w, http.StatusCreated, viewOf(sess))
}

// session looks up the {id} route parameter, writing an error response when
// it is unknown.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, s.logger, err)
		return nil, false
	}
	return sess, true
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	if sess, ok := s.session(w, r); ok {
		writeJSON(w, http.StatusOK, viewOf(sess))
	}
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, s.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type positionRequest struct {
	Position *float64 `json:"position"`
}

// decode reads a JSON body into v, rejecting unknown fields.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, s.logger, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body"))
		return false
	}
	return true
}

func (s *Server) readPosition(w http.ResponseWriter, r *http.Request) (float64, bool) {
	var req positionRequest
	if !s.decode(w, r, &req) {
		return 0, false
	}
	if req.Position == nil || math.IsNaN(*req.Position) || math.IsInf(*req.Position, 0) {
		writeError(w, s.logger, errors.New(errors.ErrCodeInvalidInput, "position must be a finite number"))
		return 0, false
	}
	return *req.Position, true
}

func (s *Server) handleSlide(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	pos, ok := s.readPosition(w, r)
	if !ok {
		return
	}
	sess.Rule.SetSlidePosition(pos)
	writeJSON(w, http.StatusOK, viewOf(sess))
}

func (s *Server) handleCursor(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	pos, ok := s.readPosition(w, r)
	if !ok {
		return
	}
	sess.Rule.SetCursorPosition(pos)
	writeJSON(w, http.StatusOK, viewOf(sess))
}

type developerModeRequest struct {
	Enabled bool `json:"enabled"`
}

func (s *Server) handleDeveloperMode(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req developerModeRequest
	if !s.decode(w, r, &req) {
		return
	}
	sess.Rule.SetDeveloperMode(req.Enabled)
	writeJSON(w, http.StatusOK, viewOf(sess))
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	sess.Rule.ResetSlide()
	writeJSON(w, http.StatusOK, viewOf(sess))
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	format := chi.URLParam(r, "format")
	opts := pipeline.Options{
		Instrument: sess.Meta.Instrument,
		Formats:    []string{format},
		NoCursor:   queryBool(r, "nocursor"),
		Exact:      queryBool(r, "exact"),
	}
	if v := r.URL.Query().Get("scale"); v != "" {
		scale, err := strconv.ParseFloat(v, 64)
		if err != nil {
			writeError(w, s.logger, errors.Wrap(errors.ErrCodeInvalidInput, err, "scale"))
			return
		}
		opts.PNGScale = scale
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		writeError(w, s.logger, err)
		return
	}

	artifacts, hit, err := s.runner.RenderRule(r.Context(), sess.Rule, sess.Meta.InstrumentHash, opts)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	w.Header().Set("Content-Type", contentTypes[format])
	if hit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifacts[format])
}

func queryBool(r *http.Request, key string) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get(key))
	return err == nil && v
}
