// Command furfolio is an interactive grooming-ledger session: record
// charges and expenses, undo and redo mistakes, and print financial
// reports. Undo history lives for the duration of the session.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"furfolio/internal/backend"
	"furfolio/internal/cli"
	"furfolio/internal/core"
	"furfolio/internal/log"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentCLI)

	actor := flag.String("actor", "cli", "actor name stamped on audit events")
	flag.Parse()

	cfg := cli.LoadAndValidateConfig(logger)

	backendCfg, err := backend.FromAppConfig(cfg, *actor)
	if err != nil {
		logger.Error("Invalid backend configuration", log.FieldError, err)
		os.Exit(1)
	}

	ctx := context.Background()
	result, err := backend.NewFactory(logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to create backend", log.FieldError, err)
		os.Exit(1)
	}
	if result.Cleanup != nil {
		defer func() {
			if err := result.Cleanup(); err != nil {
				logger.Warn("Cleanup failed", log.FieldError, err)
			}
		}()
	}

	session := &session{app: result.App, out: os.Stdout}
	session.run(ctx, os.Stdin)
}

type session struct {
	app *backend.App
	out *os.File
}

func (s *session) run(ctx context.Context, in *os.File) {
	fmt.Fprintln(s.out, "furfolio ledger. Type 'help' for commands, 'quit' to exit.")

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(s.out, "> ")
		if !scanner.Scan() {
			return
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		cmd, args := fields[0], fields[1:]
		switch cmd {
		case "quit", "exit":
			return
		case "help":
			s.printHelp()
		case "add":
			s.handleAdd(ctx, args)
		case "edit":
			s.handleEdit(ctx, args)
		case "delete":
			s.handleDelete(ctx, args)
		case "expense":
			s.handleExpense(ctx, args)
		case "undo":
			s.handleUndo(ctx)
		case "redo":
			s.handleRedo(ctx)
		case "list":
			s.handleList(ctx)
		case "report":
			s.handleReport(ctx, args)
		case "audit":
			s.handleAudit(ctx, args)
		default:
			fmt.Fprintf(s.out, "unknown command %q, type 'help'\n", cmd)
		}
	}
}

func (s *session) printHelp() {
	fmt.Fprint(s.out, `commands:
  add <amount> <service type...> [@method]   record a charge, e.g. add 75.00 Full Package @credit
  expense <amount> <category...>             record a business expense
  edit <id-prefix> <amount> <service...>     change a charge's amount and service
  delete <id-prefix>                         remove a charge
  undo / redo                                step the change history
  list                                       show all charges
  report [today|week|month|year]             financial report, default week
  report <start> <end>                       report for a custom range (YYYY-MM-DD)
  audit [n]                                  show recent audit events
  quit
`)
}

func (s *session) handleAdd(ctx context.Context, args []string) {
	if len(args) < 2 {
		fmt.Fprintln(s.out, "usage: add <amount> <service type...> [@method]")
		return
	}
	cents, err := core.ParseDecimalToCents(args[0])
	if err != nil {
		fmt.Fprintf(s.out, "bad amount: %v\n", err)
		return
	}

	method := core.PaymentCash
	serviceWords := args[1:]
	if last := serviceWords[len(serviceWords)-1]; strings.HasPrefix(last, "@") {
		method = core.PaymentMethod(strings.TrimPrefix(last, "@"))
		serviceWords = serviceWords[:len(serviceWords)-1]
	}

	c := core.Charge{
		ID:     uuid.New(),
		Date:   time.Now().UTC(),
		Type:   strings.Join(serviceWords, " "),
		Amount: core.Money{Cents: cents},
		Method: method,
	}
	if err := s.app.Charges.AddCharge(ctx, c); err != nil {
		fmt.Fprintf(s.out, "add failed: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "added %s  %s %s (%s)\n", shortID(c.ID), c.Type, c.Amount, c.Method)
}

func (s *session) handleExpense(ctx context.Context, args []string) {
	if len(args) < 2 {
		fmt.Fprintln(s.out, "usage: expense <amount> <category...>")
		return
	}
	cents, err := core.ParseDecimalToCents(args[0])
	if err != nil {
		fmt.Fprintf(s.out, "bad amount: %v\n", err)
		return
	}

	e := core.Expense{
		ID:       uuid.New(),
		Date:     time.Now().UTC(),
		Category: strings.Join(args[1:], " "),
		Amount:   core.Money{Cents: cents},
	}
	if err := s.app.Charges.AddExpense(ctx, e); err != nil {
		fmt.Fprintf(s.out, "expense failed: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "recorded expense  %s %s\n", e.Category, e.Amount)
}

func (s *session) handleEdit(ctx context.Context, args []string) {
	if len(args) < 3 {
		fmt.Fprintln(s.out, "usage: edit <id-prefix> <amount> <service type...>")
		return
	}
	old, ok := s.findCharge(ctx, args[0])
	if !ok {
		return
	}
	cents, err := core.ParseDecimalToCents(args[1])
	if err != nil {
		fmt.Fprintf(s.out, "bad amount: %v\n", err)
		return
	}

	edited := old
	edited.Amount = core.Money{Cents: cents}
	edited.Type = strings.Join(args[2:], " ")
	if err := s.app.Charges.EditCharge(ctx, old, edited); err != nil {
		fmt.Fprintf(s.out, "edit failed: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "edited %s  %s %s\n", shortID(edited.ID), edited.Type, edited.Amount)
}

func (s *session) handleDelete(ctx context.Context, args []string) {
	if len(args) != 1 {
		fmt.Fprintln(s.out, "usage: delete <id-prefix>")
		return
	}
	c, ok := s.findCharge(ctx, args[0])
	if !ok {
		return
	}
	if err := s.app.Charges.DeleteCharge(ctx, c); err != nil {
		fmt.Fprintf(s.out, "delete failed: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "deleted %s  %s %s\n", shortID(c.ID), c.Type, c.Amount)
}

func (s *session) handleUndo(ctx context.Context) {
	change, ok, err := s.app.Charges.Undo(ctx)
	if err != nil {
		fmt.Fprintf(s.out, "undo failed: %v\n", err)
		return
	}
	if !ok {
		fmt.Fprintln(s.out, "nothing to undo")
		return
	}
	fmt.Fprintf(s.out, "undid: now %s %s (%s %s)\n",
		change.Kind, shortID(change.Charge.ID), change.Charge.Type, change.Charge.Amount)
}

func (s *session) handleRedo(ctx context.Context) {
	change, ok, err := s.app.Charges.Redo(ctx)
	if err != nil {
		fmt.Fprintf(s.out, "redo failed: %v\n", err)
		return
	}
	if !ok {
		fmt.Fprintln(s.out, "nothing to redo")
		return
	}
	fmt.Fprintf(s.out, "redid: %s %s (%s %s)\n",
		change.Kind, shortID(change.Charge.ID), change.Charge.Type, change.Charge.Amount)
}

func (s *session) handleList(ctx context.Context) {
	charges, err := s.app.Store.FetchAllCharges(ctx)
	if err != nil {
		fmt.Fprintf(s.out, "list failed: %v\n", err)
		return
	}
	if len(charges) == 0 {
		fmt.Fprintln(s.out, "no charges")
		return
	}
	for _, c := range charges {
		paid := "paid"
		if !c.Paid() {
			paid = "UNPAID"
		}
		fmt.Fprintf(s.out, "%s  %s  %-20s %8s  %s\n",
			shortID(c.ID), c.Date.Format("2006-01-02"), c.Type, c.Amount, paid)
	}
}

func (s *session) handleReport(ctx context.Context, args []string) {
	period, name, err := parseReportPeriod(args)
	if err != nil {
		fmt.Fprintf(s.out, "bad period: %v\n", err)
		return
	}

	report, err := s.app.Reports.Generate(ctx, period)
	if err != nil {
		fmt.Fprintf(s.out, "report failed: %v\n", err)
		return
	}

	fmt.Fprintf(s.out, "report %s, %s to %s\n", name,
		report.Range.Start.Format("2006-01-02"), report.Range.End.Format("2006-01-02"))
	fmt.Fprintf(s.out, "  revenue:  %10s\n", report.TotalRevenue)
	fmt.Fprintf(s.out, "  expenses: %10s\n", report.TotalExpenses)
	fmt.Fprintf(s.out, "  net:      %10s  (margin %.1f%%)\n", report.NetProfit, report.ProfitMarginPct)
	if len(report.RevenueBreakdown) > 0 {
		fmt.Fprintln(s.out, "  by service:")
		for _, item := range report.RevenueBreakdown {
			fmt.Fprintf(s.out, "    %-20s %10s\n", item.Category, item.Amount)
		}
	}
	if len(report.ExpenseBreakdown) > 0 {
		fmt.Fprintln(s.out, "  by expense category:")
		for _, item := range report.ExpenseBreakdown {
			fmt.Fprintf(s.out, "    %-20s %10s\n", item.Category, item.Amount)
		}
	}
}

func (s *session) handleAudit(ctx context.Context, args []string) {
	limit := 20
	if len(args) > 0 {
		if _, err := fmt.Sscanf(args[0], "%d", &limit); err != nil {
			fmt.Fprintf(s.out, "bad limit %q\n", args[0])
			return
		}
	}

	events := s.app.Ring.Events()
	if len(events) > limit {
		events = events[len(events)-limit:]
	}
	if len(events) == 0 {
		fmt.Fprintln(s.out, "no audit events this session")
		return
	}
	for _, e := range events {
		fmt.Fprintf(s.out, "%s  %-6s %-7s %s  %s\n",
			e.Time.Format(time.TimeOnly), e.Action, e.Entity, shortPrefix(e.EntityID), e.Detail)
	}
}

// parseReportPeriod turns report arguments into a period: either one named
// period (default week) or a start and end day as YYYY-MM-DD. Both days are
// inclusive, so the end bound is pushed to the last instant of that day.
func parseReportPeriod(args []string) (core.Period, string, error) {
	if len(args) == 2 {
		start, err := time.Parse("2006-01-02", args[0])
		if err != nil {
			return core.Period{}, "", fmt.Errorf("bad start date %q: %w", args[0], err)
		}
		end, err := time.Parse("2006-01-02", args[1])
		if err != nil {
			return core.Period{}, "", fmt.Errorf("bad end date %q: %w", args[1], err)
		}
		end = end.AddDate(0, 0, 1).Add(-time.Nanosecond)

		period, err := core.CustomPeriod(start, end)
		if err != nil {
			return core.Period{}, "", err
		}
		return period, "custom", nil
	}

	name := "week"
	if len(args) > 0 {
		name = args[0]
	}
	period, err := core.NamedPeriod(name)
	if err != nil {
		return core.Period{}, "", fmt.Errorf("%q: %w", name, err)
	}
	return period, name, nil
}

// findCharge resolves an ID prefix against the stored charges.
func (s *session) findCharge(ctx context.Context, prefix string) (core.Charge, bool) {
	charges, err := s.app.Store.FetchAllCharges(ctx)
	if err != nil {
		fmt.Fprintf(s.out, "lookup failed: %v\n", err)
		return core.Charge{}, false
	}

	var matches []core.Charge
	for _, c := range charges {
		if strings.HasPrefix(c.ID.String(), prefix) {
			matches = append(matches, c)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], true
	case 0:
		fmt.Fprintf(s.out, "no charge matches %q\n", prefix)
	default:
		fmt.Fprintf(s.out, "%d charges match %q, use a longer prefix\n", len(matches), prefix)
	}
	return core.Charge{}, false
}

func shortID(id uuid.UUID) string {
	return id.String()[:8]
}

func shortPrefix(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
