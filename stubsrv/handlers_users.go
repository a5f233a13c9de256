package stubsrv

import (
	"net/http"
)

func (s *Server) getMeHandler(w http.ResponseWriter, r *http.Request) {
	s.respondData(w, http.StatusOK, map[string]any{"user": currentUser(r)})
}

func (s *Server) updateMeHandler(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name      *string `json:"name"`
		ContactNo *string `json:"contactNo"`
		Location  *string `json:"location"`
	}
	if err := decodeBody(r, &body); err != nil {
		s.fail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := s.users.UpdateProfile(currentUser(r).ID, body.Name, body.ContactNo, body.Location)
	if err != nil {
		s.fail(w, http.StatusNotFound, "user not found")
		return
	}

	s.activity.Record(user.ID, "update-profile", user.Email)
	s.respondData(w, http.StatusOK, map[string]any{"user": user})
}

func (s *Server) listUsersHandler(w http.ResponseWriter, r *http.Request) {
	if !currentUser(r).CanViewTeamData() {
		s.fail(w, http.StatusForbidden, "you do not have permission to view users")
		return
	}
	s.respondData(w, http.StatusOK, map[string]any{"users": s.users.List()})
}

func (s *Server) getUserHandler(w http.ResponseWriter, r *http.Request) {
	if !currentUser(r).CanViewTeamData() {
		s.fail(w, http.StatusForbidden, "you do not have permission to view users")
		return
	}

	user, err := s.users.GetByID(r.PathValue("id"))
	if err != nil {
		s.fail(w, http.StatusNotFound, "user not found")
		return
	}
	s.respondData(w, http.StatusOK, map[string]any{"user": user})
}
