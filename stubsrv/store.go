package stubsrv

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/jrsteele09/go-crm-console/calllogs"
	"github.com/jrsteele09/go-crm-console/prospects"
	"github.com/jrsteele09/go-crm-console/reports"
	"github.com/jrsteele09/go-crm-console/sales"
	"github.com/jrsteele09/go-crm-console/teams"
	"github.com/jrsteele09/go-crm-console/transfers"
	"github.com/jrsteele09/go-crm-console/users"
)

var notFoundErr = errors.New("not found")

// userStore holds registered users and their password hashes.
type userStore struct {
	lock     sync.RWMutex
	users    map[string]*users.User
	hashes   map[string]string // user ID -> bcrypt hash
	emailIDs map[string]string // email -> user ID
}

func newUserStore() *userStore {
	return &userStore{
		users:    make(map[string]*users.User),
		hashes:   make(map[string]string),
		emailIDs: make(map[string]string),
	}
}

func (us *userStore) Create(user *users.User, password string) (*users.User, error) {
	us.lock.Lock()
	defer us.lock.Unlock()

	if _, exists := us.emailIDs[user.Email]; exists {
		return nil, errors.New("email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Wrap(err, "[userStore.Create] hash password")
	}

	stored := *user
	if stored.ID == "" {
		stored.ID = uuid.New().String()
	}
	if stored.JoiningDate.IsZero() {
		stored.JoiningDate = time.Now()
	}

	us.users[stored.ID] = &stored
	us.hashes[stored.ID] = string(hash)
	us.emailIDs[stored.Email] = stored.ID
	return &stored, nil
}

// Authenticate checks the credentials and returns the matching user.
func (us *userStore) Authenticate(email, password string) (*users.User, error) {
	us.lock.RLock()
	defer us.lock.RUnlock()

	id, ok := us.emailIDs[email]
	if !ok {
		return nil, notFoundErr
	}
	if err := bcrypt.CompareHashAndPassword([]byte(us.hashes[id]), []byte(password)); err != nil {
		return nil, errors.New("incorrect password")
	}
	return us.users[id], nil
}

func (us *userStore) GetByID(id string) (*users.User, error) {
	us.lock.RLock()
	defer us.lock.RUnlock()

	user, ok := us.users[id]
	if !ok {
		return nil, notFoundErr
	}
	return user, nil
}

func (us *userStore) List() []*users.User {
	us.lock.RLock()
	defer us.lock.RUnlock()

	list := make([]*users.User, 0, len(us.users))
	for _, u := range us.users {
		list = append(list, u)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

func (us *userStore) UpdateProfile(id string, name, contactNo, location *string) (*users.User, error) {
	us.lock.Lock()
	defer us.lock.Unlock()

	user, ok := us.users[id]
	if !ok {
		return nil, notFoundErr
	}
	if name != nil {
		user.Name = *name
	}
	if contactNo != nil {
		user.ContactNo = *contactNo
	}
	if location != nil {
		user.Location = *location
	}
	return user, nil
}

// prospectStore holds prospect records.
type prospectStore struct {
	lock      sync.RWMutex
	prospects map[string]*prospects.Prospect
	touched   map[string]bool // IDs with recorded activity
}

func newProspectStore() *prospectStore {
	return &prospectStore{
		prospects: make(map[string]*prospects.Prospect),
		touched:   make(map[string]bool),
	}
}

func (ps *prospectStore) Create(p *prospects.Prospect) *prospects.Prospect {
	ps.lock.Lock()
	defer ps.lock.Unlock()

	stored := *p
	if stored.ID == "" {
		stored.ID = uuid.New().String()
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}
	ps.prospects[stored.ID] = &stored
	return &stored
}

func (ps *prospectStore) Get(id string) (*prospects.Prospect, error) {
	ps.lock.RLock()
	defer ps.lock.RUnlock()

	p, ok := ps.prospects[id]
	if !ok {
		return nil, notFoundErr
	}
	return p, nil
}

// List returns prospects, optionally narrowed to one owner.
func (ps *prospectStore) List(ownerID string, untouchedOnly bool) []*prospects.Prospect {
	ps.lock.RLock()
	defer ps.lock.RUnlock()

	list := make([]*prospects.Prospect, 0)
	for _, p := range ps.prospects {
		if ownerID != "" && p.AssignedTo != ownerID {
			continue
		}
		if untouchedOnly && ps.touched[p.ID] {
			continue
		}
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

func (ps *prospectStore) Update(id string, fields *prospects.Prospect) (*prospects.Prospect, error) {
	ps.lock.Lock()
	defer ps.lock.Unlock()

	p, ok := ps.prospects[id]
	if !ok {
		return nil, notFoundErr
	}
	if fields.ClientName != "" {
		p.ClientName = fields.ClientName
	}
	if fields.CompanyName != "" {
		p.CompanyName = fields.CompanyName
	}
	if fields.EmailID != "" {
		p.EmailID = fields.EmailID
	}
	if fields.ContactNo != "" {
		p.ContactNo = fields.ContactNo
	}
	if fields.Comment != "" {
		p.Comment = fields.Comment
		ps.touched[id] = true
	}
	if fields.Status != "" {
		p.Status = fields.Status
		ps.touched[id] = true
	}
	if fields.AssignedTo != "" {
		p.AssignedTo = fields.AssignedTo
	}
	if !fields.ReminderDate.IsZero() {
		p.ReminderDate = fields.ReminderDate
	}
	return p, nil
}

func (ps *prospectStore) Delete(id string) error {
	ps.lock.Lock()
	defer ps.lock.Unlock()

	if _, ok := ps.prospects[id]; !ok {
		return notFoundErr
	}
	delete(ps.prospects, id)
	delete(ps.touched, id)
	return nil
}

// Reassign moves up to count prospects from one owner to another and
// returns how many actually moved.
func (ps *prospectStore) Reassign(fromUserID, toUserID string, count int) int {
	ps.lock.Lock()
	defer ps.lock.Unlock()

	ids := make([]string, 0)
	for id, p := range ps.prospects {
		if p.AssignedTo == fromUserID {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	moved := 0
	for _, id := range ids {
		if moved == count {
			break
		}
		ps.prospects[id].AssignedTo = toUserID
		moved++
	}
	return moved
}

// MarkTouched flags a prospect as having recorded activity.
func (ps *prospectStore) MarkTouched(id string) {
	ps.lock.Lock()
	defer ps.lock.Unlock()
	if _, ok := ps.prospects[id]; ok {
		ps.touched[id] = true
	}
}

// callLogStore holds call records.
type callLogStore struct {
	lock  sync.RWMutex
	calls map[string]*calllogs.CallLog
}

func newCallLogStore() *callLogStore {
	return &callLogStore{calls: make(map[string]*calllogs.CallLog)}
}

func (cs *callLogStore) Create(callLog *calllogs.CallLog) *calllogs.CallLog {
	cs.lock.Lock()
	defer cs.lock.Unlock()

	stored := *callLog
	if stored.ID == "" {
		stored.ID = uuid.New().String()
	}
	if stored.Date.IsZero() {
		stored.Date = time.Now()
	}
	cs.calls[stored.ID] = &stored
	return &stored
}

func (cs *callLogStore) Get(id string) (*calllogs.CallLog, error) {
	cs.lock.RLock()
	defer cs.lock.RUnlock()

	callLog, ok := cs.calls[id]
	if !ok {
		return nil, notFoundErr
	}
	return callLog, nil
}

func (cs *callLogStore) List(callerID string) []*calllogs.CallLog {
	cs.lock.RLock()
	defer cs.lock.RUnlock()

	list := make([]*calllogs.CallLog, 0)
	for _, callLog := range cs.calls {
		if callerID != "" && callLog.CalledBy != callerID {
			continue
		}
		list = append(list, callLog)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

func (cs *callLogStore) Update(id string, fields *calllogs.CallLog) (*calllogs.CallLog, error) {
	cs.lock.Lock()
	defer cs.lock.Unlock()

	callLog, ok := cs.calls[id]
	if !ok {
		return nil, notFoundErr
	}
	if fields.Outcome != "" {
		callLog.Outcome = fields.Outcome
	}
	if fields.Notes != "" {
		callLog.Notes = fields.Notes
	}
	if fields.Duration != 0 {
		callLog.Duration = fields.Duration
	}
	return callLog, nil
}

// saleStore holds sales records.
type saleStore struct {
	lock        sync.RWMutex
	sales       map[string]*sales.Sale
	transferred map[string]bool // sale IDs handed to finance
}

func newSaleStore() *saleStore {
	return &saleStore{
		sales:       make(map[string]*sales.Sale),
		transferred: make(map[string]bool),
	}
}

func (ss *saleStore) Create(sale *sales.Sale) *sales.Sale {
	ss.lock.Lock()
	defer ss.lock.Unlock()

	stored := *sale
	if stored.ID == "" {
		stored.ID = uuid.New().String()
	}
	if stored.Date.IsZero() {
		stored.Date = time.Now()
	}
	ss.sales[stored.ID] = &stored
	return &stored
}

func (ss *saleStore) Get(id string) (*sales.Sale, error) {
	ss.lock.RLock()
	defer ss.lock.RUnlock()

	sale, ok := ss.sales[id]
	if !ok {
		return nil, notFoundErr
	}
	return sale, nil
}

func (ss *saleStore) List(sellerID string) []*sales.Sale {
	ss.lock.RLock()
	defer ss.lock.RUnlock()

	list := make([]*sales.Sale, 0)
	for _, sale := range ss.sales {
		if sellerID != "" && sale.SoldBy != sellerID {
			continue
		}
		list = append(list, sale)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

func (ss *saleStore) Summary(sellerID string) sales.Summary {
	summary := sales.Summary{}
	for _, sale := range ss.List(sellerID) {
		summary.TotalSales++
		summary.TotalAmount += sale.Amount
	}
	return summary
}

// MarkTransferred flags the sales as handed to finance and returns how many
// were newly flagged.
func (ss *saleStore) MarkTransferred(ids []string) int {
	ss.lock.Lock()
	defer ss.lock.Unlock()

	marked := 0
	for _, id := range ids {
		if _, ok := ss.sales[id]; !ok || ss.transferred[id] {
			continue
		}
		ss.transferred[id] = true
		marked++
	}
	return marked
}

// teamStore holds team records.
type teamStore struct {
	lock  sync.RWMutex
	teams map[string]*teams.Team
}

func newTeamStore() *teamStore {
	return &teamStore{teams: make(map[string]*teams.Team)}
}

func (ts *teamStore) Create(team *teams.Team) *teams.Team {
	ts.lock.Lock()
	defer ts.lock.Unlock()

	stored := *team
	if stored.ID == "" {
		stored.ID = uuid.New().String()
	}
	ts.teams[stored.ID] = &stored
	return &stored
}

func (ts *teamStore) Get(id string) (*teams.Team, error) {
	ts.lock.RLock()
	defer ts.lock.RUnlock()

	team, ok := ts.teams[id]
	if !ok {
		return nil, notFoundErr
	}
	return team, nil
}

func (ts *teamStore) List() []*teams.Team {
	ts.lock.RLock()
	defer ts.lock.RUnlock()

	list := make([]*teams.Team, 0, len(ts.teams))
	for _, team := range ts.teams {
		list = append(list, team)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

func (ts *teamStore) Update(id string, fields *teams.Team) (*teams.Team, error) {
	ts.lock.Lock()
	defer ts.lock.Unlock()

	team, ok := ts.teams[id]
	if !ok {
		return nil, notFoundErr
	}
	if fields.Name != "" {
		team.Name = fields.Name
	}
	if fields.TeamLeadID != "" {
		team.TeamLeadID = fields.TeamLeadID
	}
	if fields.MemberIDs != nil {
		team.MemberIDs = fields.MemberIDs
	}
	return team, nil
}

func (ts *teamStore) Delete(id string) error {
	ts.lock.Lock()
	defer ts.lock.Unlock()

	if _, ok := ts.teams[id]; !ok {
		return notFoundErr
	}
	delete(ts.teams, id)
	return nil
}

// transferStore keeps the audit history of past transfers.
type transferStore struct {
	lock     sync.RWMutex
	internal []*transfers.HistoryEntry
	finance  []*transfers.HistoryEntry
}

func newTransferStore() *transferStore {
	return &transferStore{}
}

func (ts *transferStore) RecordInternal(entry *transfers.HistoryEntry) {
	ts.lock.Lock()
	defer ts.lock.Unlock()
	entry.ID = uuid.New().String()
	entry.TransferredAt = time.Now()
	ts.internal = append(ts.internal, entry)
}

func (ts *transferStore) RecordFinance(entry *transfers.HistoryEntry) {
	ts.lock.Lock()
	defer ts.lock.Unlock()
	entry.ID = uuid.New().String()
	entry.TransferredAt = time.Now()
	ts.finance = append(ts.finance, entry)
}

func (ts *transferStore) InternalHistory() []*transfers.HistoryEntry {
	ts.lock.RLock()
	defer ts.lock.RUnlock()
	return append([]*transfers.HistoryEntry(nil), ts.internal...)
}

func (ts *transferStore) FinanceHistory() []*transfers.HistoryEntry {
	ts.lock.RLock()
	defer ts.lock.RUnlock()
	return append([]*transfers.HistoryEntry(nil), ts.finance...)
}

// activityStore keeps the general activity feed.
type activityStore struct {
	lock sync.RWMutex
	logs []*reports.ActivityLog
}

func newActivityStore() *activityStore {
	return &activityStore{}
}

func (as *activityStore) Record(userID, action, detail string) {
	as.lock.Lock()
	defer as.lock.Unlock()
	as.logs = append(as.logs, &reports.ActivityLog{
		ID:        uuid.New().String(),
		UserID:    userID,
		Action:    action,
		Detail:    detail,
		Timestamp: time.Now(),
	})
}

func (as *activityStore) List() []*reports.ActivityLog {
	as.lock.RLock()
	defer as.lock.RUnlock()
	return append([]*reports.ActivityLog(nil), as.logs...)
}
