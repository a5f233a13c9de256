package stubsrv

import (
	"context"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-crm-console/users"
)

type contextKey string

const currentUserKey contextKey = "currentUser"

func currentUser(r *http.Request) *users.User {
	user, _ := r.Context().Value(currentUserKey).(*users.User)
	return user
}

// requireAuth validates the bearer token and loads the calling user into
// the request context. Any failure is a 401 with the standard envelope.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			s.fail(w, http.StatusUnauthorized, "you are not logged in")
			return
		}

		userID, err := s.tokens.Parse(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			s.fail(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		user, err := s.users.GetByID(userID)
		if err != nil {
			s.fail(w, http.StatusUnauthorized, "user no longer exists")
			return
		}

		next(w, r.WithContext(context.WithValue(r.Context(), currentUserKey, user)))
	}
}

// credentialPayload is the success shape of login and signup:
// {status, token, data:{user}}.
type credentialPayload struct {
	Status string `json:"status"`
	Token  string `json:"token"`
	Data   struct {
		User *users.User `json:"user"`
	} `json:"data"`
}

func (s *Server) respondCredentials(w http.ResponseWriter, code int, token string, user *users.User) {
	payload := credentialPayload{Status: "success", Token: token}
	payload.Data.User = user
	s.respond(w, code, payload)
}

func (s *Server) loginHandler(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeBody(r, &body); err != nil {
		s.fail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := s.users.Authenticate(body.Email, body.Password)
	if err != nil {
		s.fail(w, http.StatusUnauthorized, "incorrect email or password")
		return
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to generate token")
		s.fail(w, http.StatusInternalServerError, "could not issue token")
		return
	}

	s.activity.Record(user.ID, "login", user.Email)
	s.respondCredentials(w, http.StatusOK, token, user)
}

func (s *Server) signupHandler(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name            string         `json:"name"`
		Email           string         `json:"email"`
		Password        string         `json:"password"`
		PasswordConfirm string         `json:"passwordConfirm"`
		RefID           string         `json:"refId"`
		Role            users.RoleType `json:"role"`
	}
	if err := decodeBody(r, &body); err != nil {
		s.fail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if body.Password != body.PasswordConfirm {
		s.fail(w, http.StatusBadRequest, "Passwords do not match")
		return
	}
	if !users.ValidRole(body.Role) {
		s.fail(w, http.StatusBadRequest, "invalid role")
		return
	}

	user, err := s.users.Create(&users.User{
		Name:  body.Name,
		Email: body.Email,
		Role:  body.Role,
	}, body.Password)
	if err != nil {
		s.fail(w, http.StatusBadRequest, err.Error())
		return
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to generate token")
		s.fail(w, http.StatusInternalServerError, "could not issue token")
		return
	}

	s.activity.Record(user.ID, "signup", user.Email)
	s.respondCredentials(w, http.StatusCreated, token, user)
}

// logoutHandler acknowledges the logout. Token invalidation is the
// client's concern in this stub: it clears its persisted session.
func (s *Server) logoutHandler(w http.ResponseWriter, r *http.Request) {
	s.respond(w, http.StatusOK, map[string]any{"status": "success"})
}
