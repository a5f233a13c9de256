package stubsrv

import (
	"net/http"

	"github.com/jrsteele09/go-crm-console/teams"
)

func (s *Server) createTeamHandler(w http.ResponseWriter, r *http.Request) {
	if !currentUser(r).IsManager() {
		s.fail(w, http.StatusForbidden, "only managers can create teams")
		return
	}

	var team teams.Team
	if err := decodeBody(r, &team); err != nil {
		s.fail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created := s.teams.Create(&team)
	s.activity.Record(currentUser(r).ID, "create-team", created.Name)
	s.respondData(w, http.StatusCreated, map[string]any{"team": created})
}

func (s *Server) listTeamsHandler(w http.ResponseWriter, r *http.Request) {
	if !currentUser(r).CanViewTeamData() {
		s.fail(w, http.StatusForbidden, "you do not have permission to view teams")
		return
	}
	s.respondData(w, http.StatusOK, map[string]any{"teams": s.teams.List()})
}

func (s *Server) getTeamHandler(w http.ResponseWriter, r *http.Request) {
	team, err := s.teams.Get(r.PathValue("id"))
	if err != nil {
		s.fail(w, http.StatusNotFound, "team not found")
		return
	}
	s.respondData(w, http.StatusOK, map[string]any{"team": team})
}

func (s *Server) updateTeamHandler(w http.ResponseWriter, r *http.Request) {
	if !currentUser(r).IsManager() {
		s.fail(w, http.StatusForbidden, "only managers can update teams")
		return
	}

	var fields teams.Team
	if err := decodeBody(r, &fields); err != nil {
		s.fail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := s.teams.Update(r.PathValue("id"), &fields)
	if err != nil {
		s.fail(w, http.StatusNotFound, "team not found")
		return
	}
	s.respondData(w, http.StatusOK, map[string]any{"team": updated})
}

func (s *Server) deleteTeamHandler(w http.ResponseWriter, r *http.Request) {
	if !currentUser(r).IsManager() {
		s.fail(w, http.StatusForbidden, "only managers can delete teams")
		return
	}

	if err := s.teams.Delete(r.PathValue("id")); err != nil {
		s.fail(w, http.StatusNotFound, "team not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
