package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/jrsteele09/go-crm-console/auth"
	"github.com/jrsteele09/go-crm-console/calllogs"
	"github.com/jrsteele09/go-crm-console/guard"
	"github.com/jrsteele09/go-crm-console/internal/utils"
	"github.com/jrsteele09/go-crm-console/prospects"
	"github.com/jrsteele09/go-crm-console/reports"
	"github.com/jrsteele09/go-crm-console/sales"
	"github.com/jrsteele09/go-crm-console/session"
	"github.com/jrsteele09/go-crm-console/sessionstore"
	"github.com/jrsteele09/go-crm-console/transfers"
	"github.com/jrsteele09/go-crm-console/users"
	"github.com/jrsteele09/go-crm-console/users/usersvc"

	pkgerrors "github.com/pkg/errors"
)

type services struct {
	users     *usersvc.Service
	prospects *prospects.Service
	sales     *sales.Service
	transfers *transfers.Service
	reports   *reports.Service
	calllogs  *calllogs.Service
}

// console is the interactive shell. Guarded commands go through the route
// guard before running, exactly as protected pages would.
type console struct {
	manager *session.Manager
	guard   *guard.Guard
	svc     services
	store   sessionstore.Store
	in      *bufio.Scanner
	out     *os.File
}

func newConsole(manager *session.Manager, g *guard.Guard, svc services, store sessionstore.Store) (*console, error) {
	if manager == nil {
		return nil, pkgerrors.New("[newConsole] session manager is required")
	}
	if g == nil {
		return nil, pkgerrors.New("[newConsole] guard is required")
	}
	return &console{
		manager: manager,
		guard:   g,
		svc:     svc,
		store:   store,
		in:      bufio.NewScanner(os.Stdin),
		out:     os.Stdout,
	}, nil
}

func (c *console) Run() error {
	// The guard re-evaluates on every session transition, so an external
	// 401-triggered clear drops the user at the login prompt mid-session.
	unbind := c.guard.Bind(c.manager, func() {
		c.printf("\nSession ended. Please login to continue.\n> ")
	})
	defer unbind()

	if snap := c.manager.Snapshot(); snap.Authenticated {
		c.printf("Welcome back, %s (%s)\n", snap.User.Name, snap.User.Role)
	} else {
		c.printf("Not logged in. Use: login <email> <password>\n")
	}
	c.printf("Type 'help' for commands.\n")

	for {
		c.printf("> ")
		if !c.in.Scan() {
			return c.in.Err()
		}
		line := strings.TrimSpace(c.in.Text())
		if line == "" {
			continue
		}

		args := strings.Fields(line)
		if args[0] == "quit" || args[0] == "exit" {
			return nil
		}
		c.dispatch(args[0], args[1:])
	}
}

func (c *console) dispatch(cmd string, args []string) {
	ctx := context.Background()

	switch cmd {
	case "help":
		c.printHelp()
	case "login":
		c.login(ctx, args)
	case "signup":
		c.signup(ctx, args)
	case "logout":
		c.manager.Logout(ctx)
		c.printf("Logged out.\n")
	case "whoami":
		c.whoami()
	default:
		c.guarded(ctx, cmd, args)
	}
}

// guarded routes every other command through the guard first.
func (c *console) guarded(ctx context.Context, cmd string, args []string) {
	switch c.guard.Evaluate(c.manager.Snapshot()) {
	case guard.DecisionWait:
		c.printf("Please wait, a session operation is in progress...\n")
		return
	case guard.DecisionRedirect, guard.DecisionDeny:
		c.printf("Please login first: login <email> <password>\n")
		return
	}

	var err error
	switch cmd {
	case "dashboard":
		err = c.dashboard(ctx)
	case "prospects":
		err = c.listProspects(ctx, false)
	case "untouched":
		err = c.listProspects(ctx, true)
	case "sales":
		err = c.listSales(ctx)
	case "summary":
		err = c.salesSummary(ctx)
	case "transfer":
		err = c.transfer(ctx, args)
	case "history":
		err = c.transferHistory(ctx)
	case "performance":
		err = c.performance(ctx, args)
	case "calls":
		err = c.listCalls(ctx)
	case "profile":
		err = c.updateProfile(ctx, args)
	case "refresh":
		err = c.refreshProfile(ctx)
	default:
		c.printf("Unknown command %q. Type 'help'.\n", cmd)
		return
	}

	if err != nil {
		c.printf("Error: %s\n", err)
	}
}

func (c *console) login(ctx context.Context, args []string) {
	if len(args) != 2 {
		c.printf("Usage: login <email> <password>\n")
		return
	}
	user, err := c.manager.Login(ctx, args[0], args[1])
	if err != nil {
		c.printf("Login failed: %s\n", err)
		return
	}
	c.printf("Welcome, %s (%s)\n", user.Name, user.Role)
}

func (c *console) signup(ctx context.Context, args []string) {
	if len(args) != 5 {
		c.printf("Usage: signup <name> <email> <password> <refId> <role>\n")
		return
	}
	user, err := c.manager.Signup(ctx, auth.SignupParams{
		Name:            args[0],
		Email:           args[1],
		Password:        args[2],
		PasswordConfirm: args[2],
		RefID:           args[3],
		Role:            users.RoleType(args[4]),
	})
	if err != nil {
		c.printf("Signup failed: %s\n", err)
		return
	}
	c.printf("Account created. Welcome, %s (%s)\n", user.Name, user.Role)
}

func (c *console) whoami() {
	snap := c.manager.Snapshot()
	if !snap.Authenticated {
		c.printf("Not logged in.\n")
		return
	}
	c.printf("%s <%s> role=%s\n", snap.User.Name, snap.User.Email, snap.User.Role)

	if claims, err := auth.TokenClaims(c.store.LoadToken()); err == nil && !claims.ExpiresAt.IsZero() {
		c.printf("Session expires %s\n", claims.ExpiresAt.Format("2006-01-02 15:04:05"))
	}
}

func (c *console) dashboard(ctx context.Context) error {
	summary, err := c.svc.reports.DashboardSummary(ctx)
	if err != nil {
		return err
	}
	c.printf("Prospects: %d  Sales: %d  Amount: %.2f  Team size: %d\n",
		summary.TotalProspects, summary.TotalSales, summary.TotalAmount, summary.TeamSize)
	return nil
}

func (c *console) listProspects(ctx context.Context, untouched bool) error {
	var (
		list []*prospects.Prospect
		err  error
	)
	if untouched {
		list, err = c.svc.prospects.ListUntouched(ctx, nil)
	} else {
		list, err = c.svc.prospects.List(ctx, nil)
	}
	if err != nil {
		return err
	}

	for _, p := range list {
		c.printf("%s  %-20s %-20s %s\n", p.ID, p.ClientName, p.CompanyName, p.Status)
	}
	c.printf("%d prospect(s)\n", len(list))
	return nil
}

func (c *console) listSales(ctx context.Context) error {
	list, err := c.svc.sales.List(ctx, nil)
	if err != nil {
		return err
	}
	for _, sale := range list {
		c.printf("%s  %-20s %10.2f  %s\n", sale.ID, sale.ClientName, sale.Amount, sale.Date.Format("2006-01-02"))
	}
	c.printf("%d sale(s)\n", len(list))
	return nil
}

func (c *console) salesSummary(ctx context.Context) error {
	summary, err := c.svc.sales.SummaryReport(ctx, nil)
	if err != nil {
		return err
	}
	c.printf("Total sales: %d  Total amount: %.2f\n", summary.TotalSales, summary.TotalAmount)
	return nil
}

func (c *console) transfer(ctx context.Context, args []string) error {
	if len(args) != 3 {
		c.printf("Usage: transfer <fromUserId> <toUserId> <count>\n")
		return nil
	}
	count, err := strconv.Atoi(args[2])
	if err != nil {
		c.printf("Count must be a number.\n")
		return nil
	}

	result, err := c.svc.transfers.TransferInternal(ctx, transfers.InternalTransfer{
		FromUserID: args[0],
		ToUserID:   args[1],
		Count:      count,
	})
	if err != nil {
		return err
	}
	c.printf("%s\n", result.Message)
	return nil
}

func (c *console) transferHistory(ctx context.Context) error {
	history, err := c.svc.transfers.InternalHistory(ctx, nil)
	if err != nil {
		return err
	}
	for _, entry := range history {
		c.printf("%s  %s -> %s  %d record(s) by %s\n",
			entry.TransferredAt.Format("2006-01-02 15:04"), entry.FromUserID, entry.ToUserID, entry.Count, entry.TransferredBy)
	}
	c.printf("%d transfer(s)\n", len(history))
	return nil
}

func (c *console) performance(ctx context.Context, args []string) error {
	period := "month"
	if len(args) > 0 {
		period = args[0]
	}
	rows, err := c.svc.reports.Performance(ctx, period, "")
	if err != nil {
		return err
	}
	for _, row := range rows {
		c.printf("%-20s sales=%d amount=%.2f calls=%d\n", row.Name, row.Sales, row.Amount, row.CallCount)
	}
	return nil
}

func (c *console) listCalls(ctx context.Context) error {
	list, err := c.svc.calllogs.List(ctx, nil)
	if err != nil {
		return err
	}
	for _, callLog := range list {
		c.printf("%s  prospect=%s outcome=%s\n", callLog.Date.Format("2006-01-02 15:04"), callLog.ProspectID, callLog.Outcome)
	}
	c.printf("%d call(s)\n", len(list))
	return nil
}

// updateProfile accepts key=value pairs for name, contact and location.
func (c *console) updateProfile(ctx context.Context, args []string) error {
	params := usersvc.UpdateMeParams{}
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			c.printf("Usage: profile [name=...] [contact=...] [location=...]\n")
			return nil
		}
		switch key {
		case "name":
			params.Name = utils.Ptr(value)
		case "contact":
			params.ContactNo = utils.Ptr(value)
		case "location":
			params.Location = utils.Ptr(value)
		default:
			c.printf("Unknown field %q\n", key)
			return nil
		}
	}

	user, err := c.svc.users.UpdateMe(ctx, params)
	if err != nil {
		return err
	}
	c.printf("Profile updated: %s contact=%s location=%s\n", user.Name, user.ContactNo, user.Location)
	return nil
}

func (c *console) refreshProfile(ctx context.Context) error {
	user, err := c.svc.users.Me(ctx)
	if err != nil {
		return err
	}
	c.printf("Profile refreshed: %s <%s> role=%s\n", user.Name, user.Email, user.Role)
	return nil
}

func (c *console) printHelp() {
	c.printf(`Commands:
  login <email> <password>                     authenticate
  signup <name> <email> <password> <refId> <role>
  logout                                       end the session
  whoami                                       show the current user
  dashboard                                    role-tailored summary
  prospects | untouched                        list prospect records
  sales | summary                              list sales / aggregated report
  transfer <fromUserId> <toUserId> <count>     reassign records
  history                                      internal transfer history
  performance [day|month]                      performance report
  calls                                        list call logs
  profile [name=..] [contact=..] [location=..] update own profile
  refresh                                      re-fetch own profile
  quit
`)
}

func (c *console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}
