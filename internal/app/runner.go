package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dinosandi/Mobile-Driver/internal/apperr"
	"github.com/dinosandi/Mobile-Driver/internal/config"
	"github.com/dinosandi/Mobile-Driver/internal/domain"
	"github.com/dinosandi/Mobile-Driver/internal/gateway/backend"
	"github.com/dinosandi/Mobile-Driver/internal/http/debugserver"
	"github.com/dinosandi/Mobile-Driver/internal/logx"
	"github.com/dinosandi/Mobile-Driver/internal/service/chat"
	"github.com/dinosandi/Mobile-Driver/internal/service/tasks"
	"github.com/dinosandi/Mobile-Driver/internal/service/workflow"
	"github.com/dinosandi/Mobile-Driver/internal/session"
)

var errUsage = errors.New("usage")

// Runner dispatches one CLI command against the wired services.
type Runner struct {
	cfg    *config.Config
	sess   *session.Handle
	gw     *backend.Gateway
	tasks  *tasks.Service
	flow   *workflow.Engine
	chat   *chat.Engine
	m      *Metrics
	logger logx.Logger
	out    io.Writer
}

// NewRunner wires the command dispatcher.
func NewRunner(
	cfg *config.Config,
	sess *session.Handle,
	gw *backend.Gateway,
	taskSvc *tasks.Service,
	flow *workflow.Engine,
	chatEngine *chat.Engine,
	m *Metrics,
	logger logx.Logger,
	out io.Writer,
) *Runner {
	return &Runner{
		cfg:    cfg,
		sess:   sess,
		gw:     gw,
		tasks:  taskSvc,
		flow:   flow,
		chat:   chatEngine,
		m:      m,
		logger: logger,
		out:    out,
	}
}

// Run restores the session and executes one command.
func (r *Runner) Run(ctx context.Context, args []string) error {
	if err := r.sess.Restore(); err != nil {
		r.logger.Warn("session restore failed", logx.Err(err))
	}

	debugserver.Run(ctx, r.cfg.DebugAddr, debugserver.Handler(r.m.Registry), r.logger)

	if len(args) == 0 {
		r.usage()
		return errUsage
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "login":
		return r.login(ctx, rest)
	case "logout":
		return r.logout()
	case "whoami":
		return r.whoami()
	case "tasks":
		return r.listTasks(ctx)
	case "ship":
		return r.transition(ctx, rest, domain.StatusShipped)
	case "complete":
		return r.transition(ctx, rest, domain.StatusCompleted)
	case "assign":
		return r.assign(ctx, rest)
	case "customers":
		return r.customers(ctx)
	case "chat":
		return r.showChat(ctx, rest)
	case "send":
		return r.sendChat(ctx, rest)
	default:
		fmt.Fprintf(r.out, "unknown command %q\n", cmd)
		r.usage()
		return errUsage
	}
}

func (r *Runner) usage() {
	fmt.Fprintln(r.out, `commands:
  login <email> <password>      authenticate and persist the session
  logout                        clear the session
  whoami                        show the active session
  tasks                         list actionable deliveries and counts
  ship <transaction-id>         move a delivery to Shipped
  complete <transaction-id>     move a delivery to Completed
  assign <transaction-id> <driver-id>
                                attach a driver to an unassigned delivery
  customers                     list customers available for chat
  chat <user-id>                show the conversation with a customer
  send <user-id> <text...>      send a chat message`)
}

func (r *Runner) login(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: login <email> <password>", errUsage)
	}
	res, err := r.gw.Login(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	if err := r.sess.Begin(res.Session); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	if res.Message != "" {
		fmt.Fprintln(r.out, res.Message)
	}
	fmt.Fprintf(r.out, "logged in as %s\n", res.Session.DisplayName)
	return nil
}

func (r *Runner) logout() error {
	if err := r.sess.End(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	fmt.Fprintln(r.out, "logged out")
	return nil
}

func (r *Runner) whoami() error {
	cur := r.sess.Current()
	if !cur.Authenticated() {
		fmt.Fprintln(r.out, "not logged in")
		return nil
	}
	fmt.Fprintf(r.out, "%s (user %s)\n", cur.DisplayName, cur.UserID)
	if !cur.ExpiresAt.IsZero() {
		fmt.Fprintf(r.out, "token expires %s\n", cur.ExpiresAt.Format("2006-01-02 15:04 MST"))
	}
	return nil
}

// resolveDriver maps the logged-in account onto its driver record.
func (r *Runner) resolveDriver(ctx context.Context) (domain.Driver, error) {
	cur := r.sess.Current()
	if !cur.Authenticated() {
		return domain.Driver{}, fmt.Errorf("%w: not logged in", apperr.AuthExpired)
	}
	return r.tasks.ResolveDriver(ctx, cur.UserID)
}

func (r *Runner) listTasks(ctx context.Context) error {
	driver, err := r.resolveDriver(ctx)
	if err != nil {
		return err
	}
	list, counts, err := r.tasks.Refresh(ctx, driver.ID)
	if err != nil {
		return err
	}

	fmt.Fprintf(r.out, "new: %d  handover: %d  history: %d\n",
		counts.NewAssignments, counts.Handover, counts.History)
	if len(list) == 0 {
		fmt.Fprintln(r.out, "no active deliveries")
		return nil
	}

	w := tabwriter.NewWriter(r.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tINVOICE\tSTATUS\tNEXT")
	for _, tx := range list {
		next := "-"
		if n, ok := workflow.NextAction(tx); ok {
			next = string(n)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", tx.ID, tx.InvoiceNumber, tx.Status, next)
	}
	return w.Flush()
}

func (r *Runner) transition(ctx context.Context, args []string, target domain.TransactionStatus) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: expected <transaction-id>", errUsage)
	}
	tx, err := r.findTransaction(ctx, domain.TransactionID(args[0]))
	if err != nil {
		return err
	}
	if err := r.flow.RequestTransition(ctx, tx, target); err != nil {
		return err
	}
	fmt.Fprintf(r.out, "transaction %s is now %s\n", tx.ID, target)
	return nil
}

func (r *Runner) assign(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: assign <transaction-id> <driver-id>", errUsage)
	}
	tx, err := r.findTransaction(ctx, domain.TransactionID(args[0]))
	if err != nil {
		return err
	}
	driverID := domain.DriverID(args[1])
	if err := r.flow.Assign(ctx, tx, driverID); err != nil {
		return err
	}
	fmt.Fprintf(r.out, "driver %s assigned to transaction %s\n", driverID, tx.ID)
	return nil
}

func (r *Runner) findTransaction(ctx context.Context, id domain.TransactionID) (domain.Transaction, error) {
	all, err := r.gw.Transactions(ctx)
	if err != nil {
		return domain.Transaction{}, err
	}
	for _, tx := range all {
		if tx.ID == id {
			return tx, nil
		}
	}
	return domain.Transaction{}, fmt.Errorf("%w: transaction %s", apperr.NotFound, id)
}

func (r *Runner) customers(ctx context.Context) error {
	list, err := r.tasks.ChatEligibleCustomers(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(r.out, "no customers available")
		return nil
	}
	w := tabwriter.NewWriter(r.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tEMAIL")
	for _, c := range list {
		fmt.Fprintf(w, "%s\t%s\t%s\n", c.ID, c.Name, c.Email)
	}
	return w.Flush()
}

func (r *Runner) showChat(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: chat <user-id>", errUsage)
	}
	cur := r.sess.Current()
	if !cur.Authenticated() {
		return fmt.Errorf("%w: not logged in", apperr.AuthExpired)
	}
	entries, err := r.chat.LoadConversation(ctx, cur.UserID, domain.UserID(args[0]))
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(r.out, "no messages yet")
		return nil
	}
	for _, e := range entries {
		who := "them"
		if e.SenderID.Matches(cur.UserID) {
			who = "you"
		}
		suffix := ""
		if e.Pending {
			suffix = " (sending)"
		}
		fmt.Fprintf(r.out, "[%s] %s: %s%s\n", e.TimeOfDay, who, e.Text, suffix)
	}
	return nil
}

func (r *Runner) sendChat(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("%w: send <user-id> <text...>", errUsage)
	}
	cur := r.sess.Current()
	if !cur.Authenticated() {
		return fmt.Errorf("%w: not logged in", apperr.AuthExpired)
	}
	text := strings.Join(args[1:], " ")
	entry, err := r.chat.SendMessage(ctx, cur.UserID, domain.UserID(args[0]), text)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "[%s] you: %s (sending)\n", entry.TimeOfDay, entry.Text)
	return nil
}
