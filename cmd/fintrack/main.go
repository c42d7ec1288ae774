package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/codewithmeedev/personal-finance-manager/internal/api"
	"github.com/codewithmeedev/personal-finance-manager/internal/cli"
	"github.com/codewithmeedev/personal-finance-manager/internal/config"
	"github.com/codewithmeedev/personal-finance-manager/internal/core"
	"github.com/codewithmeedev/personal-finance-manager/internal/dashboard"
	"github.com/codewithmeedev/personal-finance-manager/internal/export"
	applog "github.com/codewithmeedev/personal-finance-manager/internal/log"
	"github.com/codewithmeedev/personal-finance-manager/internal/report"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)
	client := cli.InitClient(logger, cfg)

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	a := &app{cfg: cfg, client: client, logger: logger}

	switch os.Args[1] {
	case "signup":
		a.runSignUp()
	case "signin":
		a.runSignIn()
	case "signout":
		a.runSignOut()
	case "forgot-password":
		a.runForgotPassword()
	case "reset-password":
		a.runResetPassword()
	case "add":
		a.runAdd()
	case "list":
		a.runList()
	case "update":
		a.runUpdate()
	case "delete":
		a.runDelete()
	case "dashboard":
		a.runDashboard()
	case "export":
		a.runExport()
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Personal Finance Manager CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  fintrack <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  signup           Create an account")
	fmt.Println("  signin           Sign in and store credentials")
	fmt.Println("  signout          Discard stored credentials")
	fmt.Println("  forgot-password  Request a password reset email")
	fmt.Println("  reset-password   Set a new password with a reset token")
	fmt.Println("  add              Add an income or expense record")
	fmt.Println("  list             List records one page at a time")
	fmt.Println("  update           Update a record by ID")
	fmt.Println("  delete           Delete a record by ID")
	fmt.Println("  dashboard        Show balance, monthly totals and category breakdowns")
	fmt.Println("  export           Export all records to CSV or Google Sheets")
	fmt.Println("  help             Show this help message")
	fmt.Println("\nRun 'fintrack <command> -h' for more information on a command.")
}

type app struct {
	cfg    *config.Config
	client *api.Client
	logger *applog.Logger
}

func (a *app) fatal(msg string, err error) {
	a.logger.Error(msg, "error", err)
	os.Exit(1)
}

func (a *app) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), a.cfg.RequestTimeout+5*time.Second)
}

func (a *app) runSignUp() {
	fs := flag.NewFlagSet("signup", flag.ExitOnError)
	username := fs.String("username", "", "Account username")
	email := fs.String("email", "", "Account email")
	password := fs.String("password", "", "Account password")
	fs.Parse(os.Args[2:])

	if *username == "" || *email == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "Usage: fintrack signup -username NAME -email EMAIL -password PASSWORD")
		os.Exit(1)
	}

	ctx, cancel := a.ctx()
	defer cancel()

	if err := a.client.SignUp(ctx, *username, *email, *password); err != nil {
		a.fatal("Sign up failed", err)
	}
	fmt.Println("Account created. Run 'fintrack signin' to sign in.")
}

func (a *app) runSignIn() {
	fs := flag.NewFlagSet("signin", flag.ExitOnError)
	email := fs.String("email", "", "Account email")
	password := fs.String("password", "", "Account password")
	fs.Parse(os.Args[2:])

	if *email == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "Usage: fintrack signin -email EMAIL -password PASSWORD")
		os.Exit(1)
	}

	ctx, cancel := a.ctx()
	defer cancel()

	if err := a.client.SignIn(ctx, *email, *password); err != nil {
		a.fatal("Sign in failed", err)
	}
	fmt.Println("Signed in.")
}

func (a *app) runSignOut() {
	if err := a.client.SignOut(); err != nil {
		a.fatal("Sign out failed", err)
	}
	fmt.Println("Signed out.")
}

func (a *app) runForgotPassword() {
	fs := flag.NewFlagSet("forgot-password", flag.ExitOnError)
	email := fs.String("email", "", "Account email")
	fs.Parse(os.Args[2:])

	if *email == "" {
		fmt.Fprintln(os.Stderr, "Usage: fintrack forgot-password -email EMAIL")
		os.Exit(1)
	}

	ctx, cancel := a.ctx()
	defer cancel()

	if err := a.client.ForgotPassword(ctx, *email); err != nil {
		a.fatal("Password reset request failed", err)
	}
	fmt.Println("Password reset email sent if the address is registered.")
}

func (a *app) runResetPassword() {
	fs := flag.NewFlagSet("reset-password", flag.ExitOnError)
	token := fs.String("token", "", "Reset token from the email")
	password := fs.String("password", "", "New password")
	fs.Parse(os.Args[2:])

	if *token == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "Usage: fintrack reset-password -token TOKEN -password PASSWORD")
		os.Exit(1)
	}

	ctx, cancel := a.ctx()
	defer cancel()

	if err := a.client.ResetPassword(ctx, *token, *password); err != nil {
		a.fatal("Password reset failed", err)
	}
	fmt.Println("Password updated and signed in.")
}

func (a *app) runAdd() {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	amount := fs.String("amount", "", "Amount, e.g. 12.50 (comma accepted as decimal separator)")
	category := fs.String("category", "", "Category name")
	description := fs.String("description", "", "Optional description")
	recordType := fs.String("type", string(core.Expense), "Record type: income or expense")
	fs.Parse(os.Args[2:])

	draft, err := buildDraft(*amount, *category, *description, *recordType)
	if err != nil {
		a.fatal("Invalid record", err)
	}

	ctx, cancel := a.ctx()
	defer cancel()

	record, err := a.client.Create(ctx, draft)
	if err != nil {
		a.fatal("Create failed", err)
	}
	fmt.Printf("Added %s record %s: %s %s\n",
		record.Type, record.ID, core.FormatAmount(record.Amount), record.Category)
}

func (a *app) runList() {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	page := fs.Int("page", 1, "Page number, starting at 1")
	limit := fs.Int("limit", a.cfg.PageLimit, "Records per page")
	category := fs.String("category", "", "Filter by category")
	sortField := fs.String("sort", "date", "Sort field")
	sortOrder := fs.Int("order", int(api.Descending), "Sort order: 1 ascending, -1 descending")
	fs.Parse(os.Args[2:])

	ctx, cancel := a.ctx()
	defer cancel()

	params := api.ListParams{
		Skip:      (*page - 1) * *limit,
		Limit:     *limit,
		Category:  *category,
		SortField: *sortField,
		SortOrder: api.SortOrder(*sortOrder),
	}
	result, err := a.client.List(ctx, params)
	if err != nil {
		a.fatal("List failed", err)
	}

	printRecords(result.Records)
	fmt.Printf("\nPage %d of %d (%d records)\n", *page, api.PageCount(result.Total, *limit), result.Total)
}

func (a *app) runUpdate() {
	fs := flag.NewFlagSet("update", flag.ExitOnError)
	id := fs.String("id", "", "Record ID")
	amount := fs.String("amount", "", "Amount")
	category := fs.String("category", "", "Category name")
	description := fs.String("description", "", "Optional description")
	recordType := fs.String("type", string(core.Expense), "Record type: income or expense")
	fs.Parse(os.Args[2:])

	if *id == "" {
		fmt.Fprintln(os.Stderr, "Usage: fintrack update -id ID -amount AMOUNT -category NAME [-description TEXT] [-type income|expense]")
		os.Exit(1)
	}

	draft, err := buildDraft(*amount, *category, *description, *recordType)
	if err != nil {
		a.fatal("Invalid record", err)
	}

	ctx, cancel := a.ctx()
	defer cancel()

	record, err := a.client.Update(ctx, *id, draft)
	if err != nil {
		a.fatal("Update failed", err)
	}
	fmt.Printf("Updated record %s: %s %s\n",
		record.ID, core.FormatAmount(record.Amount), record.Category)
}

func (a *app) runDelete() {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	id := fs.String("id", "", "Record ID")
	fs.Parse(os.Args[2:])

	if *id == "" {
		fmt.Fprintln(os.Stderr, "Usage: fintrack delete -id ID")
		os.Exit(1)
	}

	ctx, cancel := a.ctx()
	defer cancel()

	message, err := a.client.Delete(ctx, *id)
	if err != nil {
		a.fatal("Delete failed", err)
	}
	fmt.Println(message)
}

func (a *app) runDashboard() {
	fs := flag.NewFlagSet("dashboard", flag.ExitOnError)
	limit := fs.Int("limit", a.cfg.PageLimit, "Records shown in the table")
	category := fs.String("category", "", "Filter the table by category")
	fs.Parse(os.Args[2:])

	ctx, cancel := a.ctx()
	defer cancel()

	svc := dashboard.New(a.client,
		dashboard.WithLogger(a.logger.WithComponent(applog.ComponentDashboard)),
		dashboard.WithDaysBack(a.cfg.DaysBack),
	)
	snap, err := svc.Load(ctx, api.ListParams{
		Limit:     *limit,
		Category:  *category,
		SortField: "date",
		SortOrder: api.Descending,
	})
	if err != nil {
		a.fatal("Dashboard load failed", err)
	}

	fmt.Printf("Dashboard at %s\n", snap.GeneratedAt.Format("2006-01-02 15:04"))

	balance := "0.00"
	if n := len(snap.Balance.Values); n > 0 {
		balance = core.FormatAmount(snap.Balance.Values[n-1])
	}
	fmt.Printf("\nBalance (last %d days): %s\n", a.cfg.DaysBack, balance)
	fmt.Printf("This month: income %s, expenses %s\n",
		core.FormatAmount(snap.MonthTotals.Income), core.FormatAmount(snap.MonthTotals.Expense))

	fmt.Println("\nLast 7 days expenses:")
	for i, label := range snap.WeeklyExpenses.Labels {
		fmt.Printf("  %s  %s\n", label, core.FormatAmount(snap.WeeklyExpenses.Values[i]))
	}

	printBreakdown("Expenses by category", snap.ExpenseBreakdown)
	printBreakdown("Income by category", snap.IncomeBreakdown)

	fmt.Println("\nLatest records:")
	printRecords(snap.Table.Records)
}

func (a *app) runExport() {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	out := fs.String("out", "", "Output CSV file ('-' for stdout)")
	toSheets := fs.Bool("sheets", false, "Append rows to the configured Google Sheet instead")
	fs.Parse(os.Args[2:])

	if *out == "" && !*toSheets {
		fmt.Fprintln(os.Stderr, "Usage: fintrack export -out FILE | fintrack export -sheets")
		os.Exit(1)
	}

	ctx, cancel := a.ctx()
	defer cancel()

	records, err := a.client.ListAll(ctx)
	if err != nil {
		a.fatal("Fetching records failed", err)
	}

	if *toSheets {
		exporter, err := export.NewSheetsExporterFromEnv(ctx)
		if err != nil {
			a.fatal("Sheets exporter init failed", err)
		}
		rows, err := exporter.Export(ctx, records)
		if err != nil {
			a.fatal("Sheets export failed", err)
		}
		fmt.Printf("Appended %d rows to the sheet.\n", rows)
		return
	}

	data := export.CSV(records, time.Local)
	if *out == "-" {
		fmt.Println(data)
		return
	}
	if err := os.WriteFile(*out, []byte(data+"\n"), 0o644); err != nil {
		a.fatal("Writing CSV failed", err)
	}
	fmt.Printf("Exported %d records to %s\n", len(records), *out)
}

func buildDraft(amount, category, description, recordType string) (core.RecordDraft, error) {
	parsed, err := core.ParseAmount(amount)
	if err != nil {
		return core.RecordDraft{}, err
	}
	draft := core.RecordDraft{
		Amount:      parsed,
		Category:    category,
		Description: description,
		Type:        core.RecordType(recordType),
	}
	if err := draft.Validate(); err != nil {
		return core.RecordDraft{}, err
	}
	return draft, nil
}

func printRecords(records []core.Record) {
	if len(records) == 0 {
		fmt.Println("  (no records)")
		return
	}
	for _, r := range records {
		sign := "-"
		if r.Type == core.Income {
			sign = "+"
		}
		fmt.Printf("  %s  %s  %s%s  %-12s %s  %s\n",
			r.ID, r.Date.Local().Format("2006-01-02"), sign,
			core.FormatAmount(r.Amount), r.Category, r.Type, r.Description)
	}
}

func printBreakdown(title string, data report.DoughnutData) {
	fmt.Printf("\n%s:\n", title)
	if len(data.Labels) == 0 {
		fmt.Println("  (none)")
		return
	}
	for i, label := range data.Labels {
		fmt.Printf("  %-12s %s  %s\n", label, core.FormatAmount(data.Values[i]), data.Colors[i])
	}
}
