// Command finlogs queries and exports the financial logs of an API token from a terminal.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Laisky/errors/v2"
	glog "github.com/Laisky/go-utils/v5/log"
	"github.com/Laisky/zap"
	_ "github.com/joho/godotenv/autoload"
	"golang.org/x/term"

	"github.com/songquanpeng/finlogs/common"
	"github.com/songquanpeng/finlogs/common/client"
	"github.com/songquanpeng/finlogs/common/config"
	"github.com/songquanpeng/finlogs/common/i18n"
	"github.com/songquanpeng/finlogs/controller"
	"github.com/songquanpeng/finlogs/logquery"
	"github.com/songquanpeng/finlogs/model"
)

// cliProfile scopes the preferences shared by every CLI invocation.
const cliProfile = "cli"

const usage = `usage: finlogs <command> [flags]

commands:
  query     list one page of logs (or several cursor pages)
  export    write every matching log into an xlsx file
  columns   show or change the persisted column set
  migrate   copy saved preferences between databases
`

func main() {
	logger, err := glog.NewConsoleWithName("finlogs-cli", glog.LevelInfo)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %+v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, cleanup := newApp(ctx, logger)
	defer cleanup()

	if err := a.run(ctx, os.Args[1:]); err != nil {
		logger.Error("finlogs failed", zap.Error(err))
		os.Exit(1)
	}
}

// app carries the collaborators of one CLI invocation.
type app struct {
	logger      glog.Logger
	stdin       io.Reader
	stdout      io.Writer
	interactive bool

	fetcher controller.LogFetcher
	pricing *logquery.PricingLoader
	prefs   model.PreferenceStore
	t       i18n.Translator
	now     func() time.Time
}

func newApp(ctx context.Context, logger glog.Logger) (*app, func()) {
	client.Init()
	if err := i18n.Init(); err != nil {
		logger.Warn("translations unavailable, falling back to English", zap.Error(err))
	}
	getter := client.New(config.APIBase, nil)

	a := &app{
		logger:      logger,
		stdin:       os.Stdin,
		stdout:      os.Stdout,
		interactive: term.IsTerminal(int(os.Stdin.Fd())),
		fetcher:     logquery.NewFetcher(getter),
		pricing:     logquery.NewPricingLoader(ctx, getter, config.PricingCacheTTL),
		t:           i18n.NewTranslator(config.Language),
		now:         time.Now,
	}

	if err := common.InitRedisClient(); err != nil {
		logger.Warn("redis unavailable, preferences fall back to the database", zap.Error(err))
	}
	if err := model.InitDB(); err != nil {
		logger.Warn("preference database unavailable, preferences are not persisted", zap.Error(err))
	}
	a.prefs = model.NewPreferenceStore(cliProfile)

	return a, func() {
		if err := model.CloseDB(); err != nil {
			logger.Debug("close database", zap.Error(err))
		}
		if err := common.CloseRedis(); err != nil {
			logger.Debug("close redis", zap.Error(err))
		}
	}
}

func (a *app) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(a.stdout, usage)
		return errors.New("missing command")
	}

	switch args[0] {
	case "query":
		return a.runQuery(ctx, args[1:])
	case "export":
		return a.runExport(ctx, args[1:])
	case "columns":
		return a.runColumns(ctx, args[1:])
	case "migrate":
		return a.runMigrate(ctx, args[1:])
	case "help", "-h", "--help":
		fmt.Fprint(a.stdout, usage)
		return nil
	default:
		fmt.Fprint(a.stdout, usage)
		return errors.Errorf("unknown command %q", args[0])
	}
}

func (a *app) newView(clipboard controller.Clipboard) *controller.FinancialLogs {
	return controller.NewFinancialLogs(controller.Deps{
		Fetcher:     a.fetcher,
		Pricing:     a.pricing,
		Preferences: a.prefs,
		Clipboard:   clipboard,
		Translator:  a.t,
		Now:         a.now,
	})
}
