package stubsrv

import (
	"fmt"
	"net/http"

	"github.com/jrsteele09/go-crm-console/prospects"
	"github.com/jrsteele09/go-crm-console/sales"
	"github.com/jrsteele09/go-crm-console/transfers"
)

// ownerScope returns the owner filter for listings: executives only see
// their own records, team leads and managers see everything the stub holds.
func ownerScope(r *http.Request) string {
	user := currentUser(r)
	if user.CanViewTeamData() {
		return ""
	}
	return user.ID
}

func (s *Server) createProspectHandler(w http.ResponseWriter, r *http.Request) {
	var prospect prospects.Prospect
	if err := decodeBody(r, &prospect); err != nil {
		s.fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if prospect.AssignedTo == "" {
		prospect.AssignedTo = currentUser(r).ID
	}

	created := s.prospects.Create(&prospect)
	s.activity.Record(currentUser(r).ID, "create-prospect", created.ClientName)
	s.respondData(w, http.StatusCreated, map[string]any{"prospect": created})
}

func (s *Server) listProspectsHandler(w http.ResponseWriter, r *http.Request) {
	s.respondData(w, http.StatusOK, map[string]any{"prospects": s.prospects.List(ownerScope(r), false)})
}

func (s *Server) listUntouchedHandler(w http.ResponseWriter, r *http.Request) {
	s.respondData(w, http.StatusOK, map[string]any{"prospects": s.prospects.List(ownerScope(r), true)})
}

func (s *Server) getProspectHandler(w http.ResponseWriter, r *http.Request) {
	prospect, err := s.prospects.Get(r.PathValue("id"))
	if err != nil {
		s.fail(w, http.StatusNotFound, "prospect not found")
		return
	}
	s.respondData(w, http.StatusOK, map[string]any{"prospect": prospect})
}

func (s *Server) updateProspectHandler(w http.ResponseWriter, r *http.Request) {
	var fields prospects.Prospect
	if err := decodeBody(r, &fields); err != nil {
		s.fail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := s.prospects.Update(r.PathValue("id"), &fields)
	if err != nil {
		s.fail(w, http.StatusNotFound, "prospect not found")
		return
	}
	s.respondData(w, http.StatusOK, map[string]any{"prospect": updated})
}

func (s *Server) deleteProspectHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.prospects.Delete(r.PathValue("id")); err != nil {
		s.fail(w, http.StatusNotFound, "prospect not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) createSaleHandler(w http.ResponseWriter, r *http.Request) {
	var sale sales.Sale
	if err := decodeBody(r, &sale); err != nil {
		s.fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if sale.SoldBy == "" {
		sale.SoldBy = currentUser(r).ID
	}

	created := s.sales.Create(&sale)
	s.activity.Record(currentUser(r).ID, "create-sale", created.ClientName)
	s.respondData(w, http.StatusCreated, map[string]any{"sale": created})
}

func (s *Server) listSalesHandler(w http.ResponseWriter, r *http.Request) {
	s.respondData(w, http.StatusOK, map[string]any{"sales": s.sales.List(ownerScope(r))})
}

func (s *Server) getSaleHandler(w http.ResponseWriter, r *http.Request) {
	sale, err := s.sales.Get(r.PathValue("id"))
	if err != nil {
		s.fail(w, http.StatusNotFound, "sale not found")
		return
	}
	s.respondData(w, http.StatusOK, map[string]any{"sale": sale})
}

func (s *Server) salesSummaryHandler(w http.ResponseWriter, r *http.Request) {
	summary := s.sales.Summary(ownerScope(r))
	s.respondData(w, http.StatusOK, map[string]any{"summary": summary})
}

func (s *Server) internalTransferHandler(w http.ResponseWriter, r *http.Request) {
	if !currentUser(r).CanViewTeamData() {
		s.fail(w, http.StatusForbidden, "you do not have permission to transfer data")
		return
	}

	var body transfers.InternalTransfer
	if err := decodeBody(r, &body); err != nil {
		s.fail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.FromUserID == "" || body.ToUserID == "" || body.Count <= 0 {
		s.fail(w, http.StatusBadRequest, "fromUserId, toUserId and a positive count are required")
		return
	}

	moved := s.prospects.Reassign(body.FromUserID, body.ToUserID, body.Count)
	s.transfers.RecordInternal(&transfers.HistoryEntry{
		FromUserID:    body.FromUserID,
		ToUserID:      body.ToUserID,
		Count:         moved,
		TransferredBy: currentUser(r).ID,
	})
	s.activity.Record(currentUser(r).ID, "internal-transfer", fmt.Sprintf("%d records", moved))

	s.respond(w, http.StatusOK, map[string]any{
		"status":  "success",
		"message": fmt.Sprintf("%d records transferred", moved),
	})
}

func (s *Server) internalHistoryHandler(w http.ResponseWriter, r *http.Request) {
	s.respondData(w, http.StatusOK, map[string]any{"history": s.transfers.InternalHistory()})
}

func (s *Server) financeTransferHandler(w http.ResponseWriter, r *http.Request) {
	if !currentUser(r).IsManager() {
		s.fail(w, http.StatusForbidden, "only managers can transfer to finance")
		return
	}

	var body struct {
		SalesIDs []string `json:"salesIds"`
	}
	if err := decodeBody(r, &body); err != nil {
		s.fail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	marked := s.sales.MarkTransferred(body.SalesIDs)
	s.transfers.RecordFinance(&transfers.HistoryEntry{
		Count:         marked,
		TransferredBy: currentUser(r).ID,
	})
	s.activity.Record(currentUser(r).ID, "finance-transfer", fmt.Sprintf("%d sales", marked))

	s.respond(w, http.StatusOK, map[string]any{
		"status":  "success",
		"message": fmt.Sprintf("%d sales transferred to finance", marked),
	})
}

func (s *Server) financeHistoryHandler(w http.ResponseWriter, r *http.Request) {
	s.respondData(w, http.StatusOK, map[string]any{"history": s.transfers.FinanceHistory()})
}

func (s *Server) dashboardSummaryHandler(w http.ResponseWriter, r *http.Request) {
	scope := ownerScope(r)
	summary := s.sales.Summary(scope)
	s.respondData(w, http.StatusOK, map[string]any{
		"totalProspects": len(s.prospects.List(scope, false)),
		"totalSales":     summary.TotalSales,
		"totalAmount":    summary.TotalAmount,
		"teamSize":       len(s.users.List()),
	})
}

func (s *Server) activityLogsHandler(w http.ResponseWriter, r *http.Request) {
	if !currentUser(r).IsManager() {
		s.fail(w, http.StatusForbidden, "only managers can view activity logs")
		return
	}
	s.respondData(w, http.StatusOK, map[string]any{"activityLogs": s.activity.List()})
}
