package stubsrv

import (
	"net/http"

	"github.com/jrsteele09/go-crm-console/calllogs"
	"github.com/jrsteele09/go-crm-console/reports"
)

func (s *Server) createCallLogHandler(w http.ResponseWriter, r *http.Request) {
	var callLog calllogs.CallLog
	if err := decodeBody(r, &callLog); err != nil {
		s.fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if callLog.CalledBy == "" {
		callLog.CalledBy = currentUser(r).ID
	}

	created := s.calls.Create(&callLog)
	s.prospects.MarkTouched(created.ProspectID)
	s.activity.Record(currentUser(r).ID, "create-calllog", created.ProspectID)
	s.respondData(w, http.StatusCreated, map[string]any{"callLog": created})
}

func (s *Server) listCallLogsHandler(w http.ResponseWriter, r *http.Request) {
	s.respondData(w, http.StatusOK, map[string]any{"callLogs": s.calls.List(ownerScope(r))})
}

func (s *Server) getCallLogHandler(w http.ResponseWriter, r *http.Request) {
	callLog, err := s.calls.Get(r.PathValue("id"))
	if err != nil {
		s.fail(w, http.StatusNotFound, "call log not found")
		return
	}
	s.respondData(w, http.StatusOK, map[string]any{"callLog": callLog})
}

func (s *Server) updateCallLogHandler(w http.ResponseWriter, r *http.Request) {
	var fields calllogs.CallLog
	if err := decodeBody(r, &fields); err != nil {
		s.fail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := s.calls.Update(r.PathValue("id"), &fields)
	if err != nil {
		s.fail(w, http.StatusNotFound, "call log not found")
		return
	}
	s.respondData(w, http.StatusOK, map[string]any{"callLog": updated})
}

func (s *Server) managerCallsHandler(w http.ResponseWriter, r *http.Request) {
	if !currentUser(r).IsManager() {
		s.fail(w, http.StatusForbidden, "only managers can view the call report")
		return
	}
	s.respondData(w, http.StatusOK, map[string]any{"callLogs": s.calls.List("")})
}

// performanceHandler aggregates sales and calls per user. The period filter
// is accepted but the stub keeps no time buckets, so it reports everything.
func (s *Server) performanceHandler(w http.ResponseWriter, r *http.Request) {
	if !currentUser(r).CanViewTeamData() {
		s.fail(w, http.StatusForbidden, "you do not have permission to view performance")
		return
	}

	rows := make([]*reports.PerformanceRow, 0)
	for _, user := range s.users.List() {
		summary := s.sales.Summary(user.ID)
		rows = append(rows, &reports.PerformanceRow{
			UserID:    user.ID,
			Name:      user.Name,
			Sales:     summary.TotalSales,
			Amount:    summary.TotalAmount,
			CallCount: len(s.calls.List(user.ID)),
		})
	}
	s.respondData(w, http.StatusOK, map[string]any{"report": rows})
}
