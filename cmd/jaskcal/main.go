// Command jaskcal renders a measure over the days of a month as a calendar
// grid, either interactively in the terminal or as JSON.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jask/jaskcal/internal/config"
	"github.com/jask/jaskcal/internal/database"
	"github.com/jask/jaskcal/internal/database/repository"
	"github.com/jask/jaskcal/internal/logging"
	"github.com/jask/jaskcal/internal/service"
)

// flags shared by every command
var (
	configPath      string
	dateColumn      string
	measureColumn   string
	highlightColumn string
	measureFormat   string
	sheet           string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "jaskcal",
		Short: "Calendar heat map of a daily measure",
		Long: `jaskcal lays out one month of a date/measure data set (CSV or XLSX) as a
calendar grid, with colour scale, data labels, tooltips and selection.`,
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "Config file (default: $XDG_CONFIG_HOME/jaskcal/config.toml)")
	pf.StringVar(&dateColumn, "date-column", "", "Column holding the date category")
	pf.StringVar(&measureColumn, "measure-column", "", "Column holding the measure")
	pf.StringVar(&highlightColumn, "highlight-column", "", "Column holding the highlighted measure")
	pf.StringVar(&measureFormat, "measure-format", "", "Format string for the measure, e.g. #,0.00")
	pf.StringVar(&sheet, "sheet", "", "Worksheet to read from an XLSX file")

	root.AddCommand(newViewCmd(), newExportCmd(), newTooltipCmd(), newSettingsCmd(), newConfigCmd())
	return root
}

// env is the wired host environment for one command run.
type env struct {
	cfg      config.Config
	log      *slog.Logger
	db       *sql.DB
	host     *service.HostService
	closeLog func() error
}

// setup loads config, opens the log and the property store, and binds the
// data file at dataPath (which may be empty for settings commands).
func setup(ctx context.Context, dataPath string, logOut io.Writer) (*env, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	applyFlags(&cfg.Data)

	log, closeLog, err := logging.Open(cfg.Log, logOut)
	if err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		_ = closeLog()
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := database.RunMigrationsWithDB(db); err != nil {
		_ = db.Close()
		_ = closeLog()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		_ = closeLog()
		return nil, fmt.Errorf("open db: %w", err)
	}

	host := &service.HostService{
		Properties: repository.NewPropertyRepo(db),
		DataPath:   dataPath,
		Binding:    service.BindingFromConfig(cfg.Data, cfg.UI.Location()),
		Logger:     log,
	}
	log.Debug("environment ready",
		slog.String("db", cfg.Database.Path),
		slog.String("data", dataPath),
		slog.String("locale", cfg.UI.Locale))
	return &env{cfg: cfg, log: log, db: db, host: host, closeLog: closeLog}, nil
}

func (e *env) Close() {
	_ = e.db.Close()
	_ = e.closeLog()
}

func applyFlags(d *config.DataConfig) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&d.DateColumn, dateColumn)
	set(&d.MeasureColumn, measureColumn)
	set(&d.HighlightColumn, highlightColumn)
	set(&d.MeasureFormat, measureFormat)
	set(&d.Sheet, sheet)
}
