// Package stubsrv is a development stand-in for the remote CRM API. It
// implements the same HTTP contract the client consumes (credential
// endpoints, profile, prospects, sales, transfers, reports) over in-memory
// stores, so the console and the integration tests have a real far end to
// talk to.
package stubsrv

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config carries the stub server's token settings.
type Config struct {
	JWTSecret       string
	TokenTTLMinutes int
}

type Server struct {
	mux    *http.ServeMux
	routes []string
	log    zerolog.Logger

	tokens    *TokenManager
	users     *userStore
	prospects *prospectStore
	sales     *saleStore
	calls     *callLogStore
	teams     *teamStore
	transfers *transferStore
	activity  *activityStore
}

// ServerOption defines a function type to modify the Server instance.
type ServerOption func(*Server)

// WithLogger sets the server's logger.
func WithLogger(logger zerolog.Logger) ServerOption {
	return func(s *Server) {
		s.log = logger
	}
}

func New(config Config, options ...ServerOption) (*Server, error) {
	if config.JWTSecret == "" {
		return nil, errors.New("[stubsrv.New] JWT secret is required")
	}

	s := &Server{
		mux:       http.NewServeMux(),
		log:       log.Logger,
		tokens:    NewTokenManager(config.JWTSecret, config.TokenTTLMinutes),
		users:     newUserStore(),
		prospects: newProspectStore(),
		sales:     newSaleStore(),
		calls:     newCallLogStore(),
		teams:     newTeamStore(),
		transfers: newTransferStore(),
		activity:  newActivityStore(),
	}
	for _, opt := range options {
		opt(s)
	}

	s.initRoutes()
	s.logRoutes()
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) initRoutes() {
	s.RegisterRouteFunc("POST /auth/login", s.loginHandler)
	s.RegisterRouteFunc("POST /auth/signup", s.signupHandler)
	s.RegisterRouteFunc("GET /auth/logout", s.logoutHandler)

	s.RegisterRouteFunc("GET /users/getMe", s.requireAuth(s.getMeHandler))
	s.RegisterRouteFunc("PATCH /users/getMe", s.requireAuth(s.updateMeHandler))
	s.RegisterRouteFunc("GET /users", s.requireAuth(s.listUsersHandler))
	s.RegisterRouteFunc("GET /users/{id}", s.requireAuth(s.getUserHandler))

	s.RegisterRouteFunc("POST /prospects", s.requireAuth(s.createProspectHandler))
	s.RegisterRouteFunc("GET /prospects", s.requireAuth(s.listProspectsHandler))
	s.RegisterRouteFunc("GET /prospects/untouched", s.requireAuth(s.listUntouchedHandler))
	s.RegisterRouteFunc("GET /prospects/{id}", s.requireAuth(s.getProspectHandler))
	s.RegisterRouteFunc("PATCH /prospects/{id}", s.requireAuth(s.updateProspectHandler))
	s.RegisterRouteFunc("DELETE /prospects/{id}", s.requireAuth(s.deleteProspectHandler))

	s.RegisterRouteFunc("POST /sales", s.requireAuth(s.createSaleHandler))
	s.RegisterRouteFunc("GET /sales", s.requireAuth(s.listSalesHandler))
	s.RegisterRouteFunc("GET /sales/report/summary", s.requireAuth(s.salesSummaryHandler))
	s.RegisterRouteFunc("GET /sales/{id}", s.requireAuth(s.getSaleHandler))

	s.RegisterRouteFunc("POST /transfer/internal", s.requireAuth(s.internalTransferHandler))
	s.RegisterRouteFunc("GET /transfer/internal-history", s.requireAuth(s.internalHistoryHandler))
	s.RegisterRouteFunc("POST /transfer/finance", s.requireAuth(s.financeTransferHandler))
	s.RegisterRouteFunc("GET /transfer/finance-history", s.requireAuth(s.financeHistoryHandler))

	s.RegisterRouteFunc("POST /teams", s.requireAuth(s.createTeamHandler))
	s.RegisterRouteFunc("GET /teams", s.requireAuth(s.listTeamsHandler))
	s.RegisterRouteFunc("GET /teams/{id}", s.requireAuth(s.getTeamHandler))
	s.RegisterRouteFunc("PATCH /teams/{id}", s.requireAuth(s.updateTeamHandler))
	s.RegisterRouteFunc("DELETE /teams/{id}", s.requireAuth(s.deleteTeamHandler))

	s.RegisterRouteFunc("POST /calllogs", s.requireAuth(s.createCallLogHandler))
	s.RegisterRouteFunc("GET /calllogs", s.requireAuth(s.listCallLogsHandler))
	s.RegisterRouteFunc("GET /calllogs/{id}", s.requireAuth(s.getCallLogHandler))
	s.RegisterRouteFunc("PATCH /calllogs/{id}", s.requireAuth(s.updateCallLogHandler))

	s.RegisterRouteFunc("GET /reports/dashboard-summary", s.requireAuth(s.dashboardSummaryHandler))
	s.RegisterRouteFunc("GET /reports/performance", s.requireAuth(s.performanceHandler))
	s.RegisterRouteFunc("GET /reports/manager-calls", s.requireAuth(s.managerCallsHandler))
	s.RegisterRouteFunc("GET /reports/activity-logs", s.requireAuth(s.activityLogsHandler))
}

func (s *Server) logRoutes() {
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)
		if len(parts) > 1 {
			s.log.Debug().Str("method", parts[0]).Str("path", parts[1]).Msg("route registered")
		} else {
			s.log.Debug().Str("path", parts[0]).Msg("route registered")
		}
	}
}

// respondData writes the standard success envelope {status, data}.
func (s *Server) respondData(w http.ResponseWriter, code int, data any) {
	s.respond(w, code, map[string]any{"status": "success", "data": data})
}

// fail writes the error envelope: status "fail" for 4xx, "error" for 5xx.
func (s *Server) fail(w http.ResponseWriter, code int, message string) {
	status := "fail"
	if code >= 500 {
		status = "error"
	}
	s.respond(w, code, map[string]any{"status": status, "message": message})
}

func (s *Server) respond(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log.Error().Err(err).Msg("failed to encode response")
	}
}

func decodeBody(r *http.Request, into any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(into)
}
