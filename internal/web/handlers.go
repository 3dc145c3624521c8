// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/tangente/internal/chart"
	"github.com/pdiddy/tangente/internal/session"
	"github.com/pdiddy/tangente/pkg/types"
)

// maxTopicBytes bounds the request body of the JSON API.
const maxTopicBytes = 4 << 10

type cardView struct {
	Node  types.ConceptNode
	Class string
	Last  bool
}

type pageView struct {
	Provider        string
	Input           string
	Loading         bool
	Snapshot        session.Snapshot
	Suggestions     []string
	ShowSuggestions bool
	Points          []chart.Point
	Plot            chart.Plot
	Linear          []cardView
	Tangent         []cardView
}

func cards(nodes []types.ConceptNode, class string) []cardView {
	out := make([]cardView, len(nodes))
	for i, n := range nodes {
		out[i] = cardView{Node: n, Class: class, Last: i == len(nodes)-1}
	}
	return out
}

// handleIndex renders the page for the caller's current state. A topic query
// parameter only prefills the input.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot(r)

	view := pageView{
		Provider:        s.provider,
		Input:           snap.Topic,
		Loading:         snap.State == session.Loading,
		Snapshot:        snap,
		Suggestions:     types.SuggestedTopics,
		ShowSuggestions: snap.Result == nil && snap.State != session.Loading,
	}
	if t := r.URL.Query().Get("topic"); t != "" && !view.Loading {
		view.Input = t
	}
	if snap.Result != nil {
		view.Points = chart.Derive(snap.Result)
		view.Plot = chart.Project(view.Points, chartWidth, chartHeight)
		view.Linear = cards(snap.Result.LinearPath, "linear")
		view.Tangent = cards(snap.Result.TangentPath, "tangent")
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.page.Execute(w, view); err != nil {
		s.logger.Error("rendering page", zap.Error(err))
	}
}

// handleSubmit accepts the form post. Empty topics and submits while loading
// are ignored; either way the browser is sent back to the page. Only a
// non-empty submit allocates a session.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	raw := r.PostFormValue("topic")
	if strings.TrimSpace(raw) == "" {
		s.logger.Debug("submit ignored", zap.Error(session.ErrEmptyTopic))
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	sess := s.session(w, r)

	tok, topic, err := sess.Submit(raw)
	switch {
	case err == nil:
		s.startExploration(sess, tok, topic)
	case errors.Is(err, session.ErrEmptyTopic), errors.Is(err, session.ErrBusy):
		s.logger.Debug("submit ignored", zap.Error(err))
	default:
		s.logger.Error("submit failed", zap.Error(err))
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

type exploreRequest struct {
	Topic string `json:"topic"`
}

type exploreResponse struct {
	*types.ExplorationResult
	Chart []chart.Point `json:"chart"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// handleAPIExplore performs one synchronous exploration outside any session.
func (s *Server) handleAPIExplore(w http.ResponseWriter, r *http.Request) {
	var req exploreRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxTopicBytes)).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	topic := strings.TrimSpace(req.Topic)
	if topic == "" {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: session.ErrEmptyTopic.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()

	result, err := s.explorer.Explore(ctx, topic)
	if err != nil {
		s.logger.Error("api exploration failed", zap.String("topic", topic), zap.Error(err))
		s.writeJSON(w, http.StatusBadGateway, errorResponse{Error: session.FailureMessage})
		return
	}
	s.writeJSON(w, http.StatusOK, exploreResponse{ExplorationResult: result, Chart: chart.Derive(result)})
}

type sessionResponse struct {
	session.Snapshot
	Chart []chart.Point `json:"chart,omitempty"`
}

func (s *Server) handleAPISession(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot(r)
	s.writeJSON(w, http.StatusOK, sessionResponse{Snapshot: snap, Chart: chart.Derive(snap.Result)})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Debug("writing JSON response", zap.Error(err))
	}
}
