// FridgePlan — a fridge inventory and meal planning assistant.
//
// Usage:
//
//	fridgeplan [-verbose] [-quiet]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/hammamikhairi/fridgeplan/internal/conversation"
	"github.com/hammamikhairi/fridgeplan/internal/cookbook"
	"github.com/hammamikhairi/fridgeplan/internal/display"
	"github.com/hammamikhairi/fridgeplan/internal/domain"
	"github.com/hammamikhairi/fridgeplan/internal/expiry"
	"github.com/hammamikhairi/fridgeplan/internal/fridge"
	"github.com/hammamikhairi/fridgeplan/internal/logger"
	"github.com/hammamikhairi/fridgeplan/internal/planner"
	"github.com/hammamikhairi/fridgeplan/internal/units"
)

// dateLayout is the dd/MM/yyyy format used for all expiry dates.
const dateLayout = "02/01/2006"

func main() {
	_ = godotenv.Load()

	verbose := flag.Bool("verbose", false, "enable verbose/debug logging")
	quiet := flag.Bool("quiet", false, "disable all logging")
	logFile := flag.String("log-file", ".fridgeplan-logs/fridgeplan.log", "file to write logs to (use \"stderr\" to log to console)")
	noWatch := flag.Bool("no-watch", false, "disable the background expiry monitor")
	noSeed := flag.Bool("no-seed", false, "start with an empty fridge")
	soonWindow := flag.Duration("soon", 24*time.Hour, "how far ahead of expiry the monitor warns")
	flag.Parse()

	// Configure logger. The FRIDGEPLAN_LOG env var sets the base level;
	// flags override it.
	logLevel := logger.LevelNormal
	if lvl, ok := logger.ParseLevel(os.Getenv("FRIDGEPLAN_LOG")); ok {
		logLevel = lvl
	}
	if *verbose {
		logLevel = logger.LevelVerbose
	}
	if *quiet {
		logLevel = logger.LevelOff
	}

	// Direct logs to a file by default so the REPL stays clean.
	var logOut io.Writer = os.Stderr
	if *logFile != "" && *logFile != "stderr" {
		dir := filepath.Dir(*logFile)
		if dir != "" && dir != "." {
			os.MkdirAll(dir, 0o755)
		}
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not open log file %s: %v (falling back to stderr)\n", *logFile, err)
		} else {
			logOut = f
			defer f.Close()
		}
	}

	// Redirect Go's default log package to the same output so third-party
	// libs don't spam the terminal.
	stdlog.SetOutput(logOut)
	stdlog.SetFlags(stdlog.Ltime)

	log := logger.New(logLevel, logOut)

	// Set up context — cancelled when the UI quits.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Wire dependencies.
	inv := fridge.NewMemory(log)
	book := cookbook.NewMemory(log)
	ui := display.NewUI(inv)
	notifier := conversation.NewCLINotifier(log, ui.Printf)
	parser := conversation.NewKeywordParser(log)
	plan := planner.New(inv, book, log)

	if !*noSeed && os.Getenv("FRIDGEPLAN_NO_SEED") == "" {
		seedFridge(ctx, inv, log)
	}

	var supervisor *expiry.Supervisor
	if !*noWatch {
		supervisor = expiry.New(inv, notifier, log,
			expiry.WithSoonWindow(*soonWindow),
			expiry.WithWatcher(),
		)
		supervisor.Start(ctx)
		defer supervisor.Stop()
	}

	app := &cliApp{
		inv:     inv,
		book:    book,
		planner: plan,
		parser:  parser,
		log:     log,
		ui:      ui,
	}

	fmt.Println(display.RenderBanner())
	fmt.Println(display.BannerStyle.Render("  Type 'help' for commands, 'quit' to exit."))
	fmt.Println()

	// Run app logic in a background goroutine.
	go func() {
		ui.WaitReady()
		app.run(ctx)
		ui.Quit()
	}()

	// Bubble Tea owns the terminal — blocks until quit.
	if err := ui.Run(); err != nil {
		log.Error("display: %v", err)
	}
	cancel()
}

// seedFridge stocks a few staples so the planner has something to chew on.
func seedFridge(ctx context.Context, inv domain.Inventory, log *logger.Logger) {
	now := time.Now()
	staples := []struct {
		name   string
		qty    float64
		unit   string
		price  float64
		inDays int
	}{
		{"Milk", 1, "l", 30, 5},
		{"Egg", 6, "piece", 3, 10},
		{"Butter", 250, "g", 0.1, 20},
		{"Flour", 1, "kg", 20, 90},
		{"Sugar", 500, "g", 0.02, 180},
		{"Tomato", 4, "piece", 2, 4},
	}
	for _, s := range staples {
		u, err := units.BySymbol(s.unit)
		if err != nil {
			log.Error("seed: %v", err)
			continue
		}
		b, err := domain.NewBatch(s.name, s.qty, s.price, u, endOfDay(now.AddDate(0, 0, s.inDays)))
		if err != nil {
			log.Error("seed %s: %v", s.name, err)
			continue
		}
		if err := inv.Add(ctx, b); err != nil {
			log.Error("seed %s: %v", s.name, err)
		}
	}
	log.Info("fridge seeded with %d staples", len(staples))
}

type cliApp struct {
	inv     domain.Inventory
	book    domain.Cookbook
	planner *planner.Planner
	parser  domain.CommandParser
	log     *logger.Logger
	ui      *display.UI
}

func (a *cliApp) run(ctx context.Context) {
	a.ui.PrintChat("Welcome to FridgePlan. What's cooking?")
	a.ui.Println("")

	uiCh := a.ui.InputChan()

	for {
		var input string
		var ok bool

		select {
		case <-ctx.Done():
			return
		case input, ok = <-uiCh:
			if !ok {
				return
			}
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		cmd, err := a.parser.Parse(ctx, input)
		if err != nil {
			a.ui.PrintUrgent("Sorry, I couldn't parse that: " + err.Error())
			continue
		}

		a.log.Debug("command: %s payload=%q", cmd.Type, cmd.Payload)

		switch cmd.Type {
		case domain.CmdShowFridge:
			a.showFridge(ctx)
		case domain.CmdAddStock:
			a.addStock(ctx, cmd.Payload)
		case domain.CmdTakeStock:
			a.takeStock(ctx, cmd.Payload)
		case domain.CmdExpiring:
			a.showExpiring(ctx, cmd.Payload)
		case domain.CmdValue:
			a.showValue(ctx)
		case domain.CmdListRecipes:
			a.listRecipes(ctx)
		case domain.CmdShowRecipe:
			a.showRecipe(ctx, cmd.Payload)
		case domain.CmdNewRecipe:
			a.newRecipe(ctx, cmd.Payload)
		case domain.CmdAddToRecipe:
			a.addToRecipe(ctx, cmd.Payload)
		case domain.CmdCanMake:
			a.canMake(ctx, cmd.Payload)
		case domain.CmdSuggest:
			a.suggest(ctx)
		case domain.CmdHelp:
			a.showHelp()
		case domain.CmdQuit:
			a.ui.PrintChat("Keep it fresh. Bye!")
			return
		default:
			a.ui.PrintHint("I didn't get that. Type 'help' for commands.")
		}
	}
}

// ── Fridge commands ──────────────────────────────────────────────

func (a *cliApp) showFridge(ctx context.Context) {
	batches, err := a.inv.AllSortedByName(ctx)
	if err != nil {
		a.ui.PrintUrgent(errorText(err))
		return
	}
	if len(batches) == 0 {
		a.ui.PrintChat("The fridge is empty. Time to go shopping.")
		return
	}

	now := time.Now()
	a.ui.PrintHeader(fmt.Sprintf("Fridge (%d batches)", len(batches)))
	for _, b := range batches {
		line := fmt.Sprintf("%-12s %8.4g %-6s %8.2f  expires %s",
			b.Name, b.Quantity, b.Unit.Symbol, b.Price(), b.Expiry.Format(dateLayout))
		if b.IsExpired(now) {
			a.ui.PrintUrgent(line + "  [EXPIRED]")
		} else {
			a.ui.PrintItem(line)
		}
	}
}

// addStock parses "name qty unit price dd/MM/yyyy". The name may span
// several words, so the fixed fields are read from the end.
func (a *cliApp) addStock(ctx context.Context, payload string) {
	fields := strings.Fields(payload)
	if len(fields) < 5 {
		a.ui.PrintHint("Usage: add <name> <qty> <unit> <price-per-unit> <dd/MM/yyyy>")
		return
	}

	n := len(fields)
	expiry, err := parseExpiry(fields[n-1])
	if err != nil {
		a.ui.PrintUrgent(err.Error())
		return
	}
	price, err := strconv.ParseFloat(fields[n-2], 64)
	if err != nil {
		a.ui.PrintUrgent(fmt.Sprintf("'%s' doesn't look like a price.", fields[n-2]))
		return
	}
	u, err := units.BySymbol(fields[n-3])
	if err != nil {
		a.ui.PrintUrgent(errorText(err))
		return
	}
	qty, err := strconv.ParseFloat(fields[n-4], 64)
	if err != nil {
		a.ui.PrintUrgent(fmt.Sprintf("'%s' doesn't look like a quantity.", fields[n-4]))
		return
	}
	name := strings.Join(fields[:n-4], " ")

	b, err := domain.NewBatch(name, qty, price, u, expiry)
	if err != nil {
		a.ui.PrintUrgent(errorText(err))
		return
	}
	if err := a.inv.Add(ctx, b); err != nil {
		a.ui.PrintUrgent(errorText(err))
		return
	}
	a.ui.PrintChat(fmt.Sprintf("Stocked %g %s of %s (expires %s).", qty, u.Symbol, name, expiry.Format(dateLayout)))
}

// takeStock parses "name qty unit dd/MM/yyyy".
func (a *cliApp) takeStock(ctx context.Context, payload string) {
	fields := strings.Fields(payload)
	if len(fields) < 4 {
		a.ui.PrintHint("Usage: take <name> <qty> <unit> <dd/MM/yyyy>")
		return
	}

	n := len(fields)
	expiry, err := parseExpiry(fields[n-1])
	if err != nil {
		a.ui.PrintUrgent(err.Error())
		return
	}
	u, err := units.BySymbol(fields[n-2])
	if err != nil {
		a.ui.PrintUrgent(errorText(err))
		return
	}
	qty, err := strconv.ParseFloat(fields[n-3], 64)
	if err != nil {
		a.ui.PrintUrgent(fmt.Sprintf("'%s' doesn't look like a quantity.", fields[n-3]))
		return
	}
	name := strings.Join(fields[:n-3], " ")

	if err := a.inv.RemoveQuantity(ctx, name, qty, u, expiry); err != nil {
		a.ui.PrintUrgent(errorText(err))
		return
	}
	a.ui.PrintChat(fmt.Sprintf("Took %g %s of %s.", qty, u.Symbol, name))
}

// showExpiring lists stock expiring before the given date, or within a
// week when no date is given.
func (a *cliApp) showExpiring(ctx context.Context, payload string) {
	cutoff := time.Now().Add(7 * 24 * time.Hour)
	if payload != "" {
		t, err := parseExpiry(payload)
		if err != nil {
			a.ui.PrintUrgent(err.Error())
			return
		}
		cutoff = t
	}

	batches, err := a.inv.FindExpiringBefore(ctx, cutoff)
	if err != nil {
		a.ui.PrintUrgent(errorText(err))
		return
	}
	if len(batches) == 0 {
		a.ui.PrintChat("Nothing expiring before " + cutoff.Format(dateLayout) + ". Nice.")
		return
	}

	value, err := a.inv.ValueExpiringBefore(ctx, cutoff)
	if err != nil {
		a.ui.PrintUrgent(errorText(err))
		return
	}

	now := time.Now()
	a.ui.PrintHeader(fmt.Sprintf("Expiring before %s (%.2f at stake)", cutoff.Format(dateLayout), value))
	for _, b := range batches {
		line := fmt.Sprintf("%-12s %8.4g %-6s  expires %s",
			b.Name, b.Quantity, b.Unit.Symbol, b.Expiry.Format(dateLayout))
		if b.IsExpired(now) {
			a.ui.PrintUrgent(line + "  [EXPIRED]")
		} else {
			a.ui.PrintItem(line)
		}
	}
}

func (a *cliApp) showValue(ctx context.Context) {
	total, err := a.inv.TotalValue(ctx)
	if err != nil {
		a.ui.PrintUrgent(errorText(err))
		return
	}
	a.ui.PrintChat(fmt.Sprintf("Everything in the fridge is worth %.2f.", total))
}

// ── Cookbook commands ────────────────────────────────────────────

func (a *cliApp) listRecipes(ctx context.Context) {
	recipes, err := a.book.All(ctx)
	if err != nil {
		a.ui.PrintUrgent(errorText(err))
		return
	}
	if len(recipes) == 0 {
		a.ui.PrintChat("The cookbook is empty. Add one with 'newrecipe'.")
		return
	}

	a.ui.PrintHeader(fmt.Sprintf("Cookbook (%d recipes)", len(recipes)))
	for _, r := range recipes {
		a.ui.PrintItem(fmt.Sprintf("%-16s %s", r.Name, r.Description))
	}
	a.ui.PrintHint("Type 'recipe <name>' for details.")
}

func (a *cliApp) showRecipe(ctx context.Context, name string) {
	r, err := a.book.Get(ctx, name)
	if err != nil {
		a.ui.PrintUrgent(errorText(err))
		return
	}

	a.ui.PrintHeader(r.Name)
	if r.Description != "" {
		a.ui.PrintHint(r.Description)
	}
	for _, ing := range r.Ingredients {
		a.ui.PrintItem(fmt.Sprintf("%-12s %8.4g %s", ing.Name, ing.Quantity, ing.Unit.Symbol))
	}
	if r.Instruction != "" {
		a.ui.PrintItem(r.Instruction)
	}
}

// newRecipe parses "name | description | instruction". Description and
// instruction are optional.
func (a *cliApp) newRecipe(ctx context.Context, payload string) {
	parts := strings.Split(payload, "|")
	name := strings.TrimSpace(parts[0])
	desc, instruction := "", ""
	if len(parts) > 1 {
		desc = strings.TrimSpace(parts[1])
	}
	if len(parts) > 2 {
		instruction = strings.TrimSpace(parts[2])
	}

	r, err := domain.NewRecipe(name, desc, instruction)
	if err != nil {
		a.ui.PrintUrgent(errorText(err))
		return
	}
	if err := a.book.AddRecipe(ctx, r); err != nil {
		a.ui.PrintUrgent(errorText(err))
		return
	}
	a.ui.PrintChat(fmt.Sprintf("Added '%s' to the cookbook. Use 'need %s: <ingredient> <qty> <unit>' to build it up.", name, name))
}

// addToRecipe parses "recipe: ingredient qty unit".
func (a *cliApp) addToRecipe(ctx context.Context, payload string) {
	recipeName, rest, found := strings.Cut(payload, ":")
	if !found {
		a.ui.PrintHint("Usage: need <recipe>: <ingredient> <qty> <unit>")
		return
	}
	recipeName = strings.TrimSpace(recipeName)

	fields := strings.Fields(rest)
	if len(fields) < 3 {
		a.ui.PrintHint("Usage: need <recipe>: <ingredient> <qty> <unit>")
		return
	}
	n := len(fields)
	u, err := units.BySymbol(fields[n-1])
	if err != nil {
		a.ui.PrintUrgent(errorText(err))
		return
	}
	qty, err := strconv.ParseFloat(fields[n-2], 64)
	if err != nil {
		a.ui.PrintUrgent(fmt.Sprintf("'%s' doesn't look like a quantity.", fields[n-2]))
		return
	}
	ingName := strings.Join(fields[:n-2], " ")

	if err := a.book.AddIngredientToRecipe(ctx, recipeName, ingName, qty, u); err != nil {
		a.ui.PrintUrgent(errorText(err))
		return
	}
	a.ui.PrintChat(fmt.Sprintf("'%s' now needs %g %s of %s.", recipeName, qty, u.Symbol, ingName))
}

// ── Planner commands ─────────────────────────────────────────────

func (a *cliApp) canMake(ctx context.Context, name string) {
	ok, err := a.planner.CanMake(ctx, name)
	if err != nil {
		a.ui.PrintUrgent(errorText(err))
		return
	}
	if ok {
		a.ui.PrintChat(fmt.Sprintf("Yes — you have everything for %s. Get cooking!", name))
	} else {
		a.ui.PrintChat(fmt.Sprintf("Not quite — the fridge is missing something for %s.", name))
	}
}

func (a *cliApp) suggest(ctx context.Context) {
	recipes, err := a.planner.Suggested(ctx)
	if err != nil {
		a.ui.PrintUrgent(errorText(err))
		return
	}
	if len(recipes) == 0 {
		a.ui.PrintChat("Nothing in the cookbook is fully covered right now. Maybe restock?")
		return
	}

	a.ui.PrintHeader("You could make:")
	for _, r := range recipes {
		a.ui.PrintItem(fmt.Sprintf("• %-16s %s", r.Name, r.Description))
	}
}

// ── Misc ─────────────────────────────────────────────────────────

func (a *cliApp) showHelp() {
	a.ui.PrintHeader("Commands")
	help := []struct{ cmd, desc string }{
		{"fridge", "show everything in stock"},
		{"add <name> <qty> <unit> <price> <dd/MM/yyyy>", "stock a new batch"},
		{"take <name> <qty> <unit> <dd/MM/yyyy>", "use up some stock"},
		{"expiring [dd/MM/yyyy]", "what's going bad (default: within a week)"},
		{"value", "total worth of the fridge"},
		{"recipes", "list the cookbook"},
		{"recipe <name>", "show one recipe"},
		{"newrecipe <name> | <desc> | <instruction>", "add a recipe"},
		{"need <recipe>: <ingredient> <qty> <unit>", "add an ingredient to a recipe"},
		{"canmake <recipe>", "check if the fridge covers a recipe"},
		{"suggest", "recipes the fridge fully covers"},
		{"quit", "exit"},
	}
	for _, h := range help {
		a.ui.PrintItem(fmt.Sprintf("%-44s %s", h.cmd, h.desc))
	}
}

// errorText maps domain errors to friendly messages.
func errorText(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return "I couldn't find that: " + err.Error()
	case errors.Is(err, domain.ErrAlreadyExists):
		return "That already exists: " + err.Error()
	case errors.Is(err, domain.ErrInsufficientQuantity):
		return "There isn't enough: " + err.Error()
	case errors.Is(err, domain.ErrInvalid):
		return "That doesn't look right: " + err.Error()
	case errors.Is(err, units.ErrUnknown):
		return "I don't know that unit: " + err.Error()
	case errors.Is(err, units.ErrIncompatible):
		return "Those units don't mix: " + err.Error()
	default:
		return "Something went wrong: " + err.Error()
	}
}

// parseExpiry reads a dd/MM/yyyy date. The batch stays good through the
// end of the stated day.
func parseExpiry(s string) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, strings.TrimSpace(s), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("'%s' isn't a date I understand (want dd/MM/yyyy)", s)
	}
	return endOfDay(t), nil
}

// endOfDay returns the last second of t's calendar day.
func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}
