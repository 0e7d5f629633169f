package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jask/jaskcal/internal/calendar"
	"github.com/jask/jaskcal/internal/config"
	"github.com/jask/jaskcal/internal/service"
	"github.com/jask/jaskcal/internal/settings"
	"github.com/jask/jaskcal/internal/tui"
	"github.com/jask/jaskcal/internal/visual"
)

func newViewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "view <file>",
		Short: "Browse the calendar interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			// the terminal belongs to the UI; log only to the configured file
			e, err := setup(ctx, args[0], io.Discard)
			if err != nil {
				return err
			}
			defer e.Close()

			m := tui.New(ctx, e.host, tui.Options{
				Title:             args[0],
				Locale:            e.cfg.UI.Locale,
				Location:          e.cfg.UI.Location(),
				PreserveSelection: e.cfg.UI.PreserveSelection,
				Logger:            e.log,
			})
			if _, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
				return fmt.Errorf("run ui: %w", err)
			}
			return nil
		},
	}
}

// exportFrame is the JSON form of one rendered frame.
type exportFrame struct {
	ViewModel *calendar.ViewModel `json:"viewModel"`
	Opacity   []float64           `json:"opacity"`
	Selected  []string            `json:"selected"`
}

func newExportCmd() *cobra.Command {
	var (
		outputPath string
		pretty     bool
		selectDays []string
	)
	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Write the calendar view-model as JSON",
		Long: `export builds the view-model for <file> and writes it with one opacity per
data point. Each --select day is clicked in order, the first plainly and the
rest with extend, so the output reflects that selection.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd.Context(), args[0], cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer e.Close()

			var frame visual.Frame
			v, err := loadVisual(cmd.Context(), e, visual.RendererFunc(func(f visual.Frame) { frame = f }))
			if err != nil {
				return err
			}
			for i, day := range selectDays {
				p, err := pointByDay(v.ViewModel(), day, e.cfg.UI.Location())
				if err != nil {
					return err
				}
				v.Click(p.Key, i > 0)
			}

			export := exportFrame{
				ViewModel: frame.ViewModel,
				Opacity:   frame.Opacity,
				Selected:  v.Selection().Keys(),
			}
			if outputPath == "" {
				return writeJSON(cmd.OutOrStdout(), export, pretty)
			}
			f, err := os.Create(outputPath)
			if err != nil {
				return fmt.Errorf("create output: %w", err)
			}
			return writeAndClose(f, export, pretty)
		},
	}
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	cmd.Flags().StringSliceVar(&selectDays, "select", nil, "Day to select (YYYY-MM-DD), repeatable")
	return cmd
}

func newTooltipCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "tooltip <file> <YYYY-MM-DD>",
		Short: "Print the tooltip of one day",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd.Context(), args[0], cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer e.Close()

			v, err := loadVisual(cmd.Context(), e, nil)
			if err != nil {
				return err
			}
			key := ""
			if p, err := pointByDay(v.ViewModel(), args[1], e.cfg.UI.Location()); err == nil {
				key = p.Key
			}
			items := v.Tooltip(key)
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), items, true)
			}
			out := cmd.OutOrStdout()
			if len(items) > 0 && items[0].Header != "" {
				fmt.Fprintln(out, items[0].Header)
			}
			for _, it := range items {
				if it.Value == "" {
					fmt.Fprintln(out, it.DisplayName)
					continue
				}
				fmt.Fprintf(out, "%s: %s\n", it.DisplayName, it.Value)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the tooltip items as JSON")
	return cmd
}

func newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Inspect and change the stored formatting properties",
	}

	list := &cobra.Command{
		Use:   "list [object]",
		Short: "Show resolved settings, one object or all",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd.Context(), "", cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer e.Close()

			overrides, err := e.host.Overrides(cmd.Context())
			if err != nil {
				return err
			}
			s := settings.Resolve(overrides, settings.Defaults(), e.log)
			names := settings.Objects
			if len(args) == 1 {
				names = args
			}
			var out []settings.ObjectInstance
			for _, name := range names {
				inst := settings.Enumerate(s, name)
				if len(inst) == 0 {
					return fmt.Errorf("%w: object %q", service.ErrUnknownProperty, name)
				}
				out = append(out, inst...)
			}
			return writeJSON(cmd.OutOrStdout(), out, true)
		},
	}

	set := &cobra.Command{
		Use:   "set <object> <property> <value>",
		Short: "Store an override; the value is JSON when it parses (null clears to an explicit null)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd.Context(), "", cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer e.Close()
			if err := e.host.SetProperty(cmd.Context(), args[0], args[1], service.ParseValue(args[2])); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "set %s.%s\n", args[0], args[1])
			return nil
		},
	}

	get := &cobra.Command{
		Use:   "get <object> <property>",
		Short: "Show the stored override of one property",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd.Context(), "", cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer e.Close()
			p, err := e.host.Stored(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			if p == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "%s.%s: default\n", args[0], args[1])
				return nil
			}
			raw, err := json.Marshal(p.Value)
			if err != nil {
				return fmt.Errorf("encode json: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s.%s: %s (updated %s)\n", args[0], args[1], raw, p.UpdatedAt.Format(time.RFC3339))
			return nil
		},
	}

	unset := &cobra.Command{
		Use:   "unset <object> <property>",
		Short: "Drop an override so the default applies again",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd.Context(), "", cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer e.Close()
			if err := e.host.ClearProperty(cmd.Context(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "unset %s.%s\n", args[0], args[1])
			return nil
		},
	}

	reset := &cobra.Command{
		Use:   "reset [object]",
		Short: "Drop every override of one object, or of all objects",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd.Context(), "", cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer e.Close()
			if len(args) == 0 {
				if err := (&service.MaintenanceService{DB: e.db}).Reset(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "all overrides removed")
				return nil
			}
			n, err := e.host.ResetObject(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d overrides removed from %s\n", n, args[0])
			return nil
		},
	}

	cmd.AddCommand(list, get, set, unset, reset)
	return cmd
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}
	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the effective configuration (defaults, env and flags) to the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := configPath
			if path == "" {
				path = config.DefaultPath()
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("config %s already exists (use --force to overwrite)", path)
			}
			cfg, err := config.Load(path)
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			applyFlags(&cfg.Data)
			if err := config.Save(cfg, path); err != nil {
				return fmt.Errorf("save config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")
	cmd.AddCommand(initCmd)
	return cmd
}

func loadVisual(ctx context.Context, e *env, r visual.Renderer) (*visual.Visual, error) {
	dv, err := e.host.Load(ctx)
	if err != nil {
		return nil, err
	}
	v := visual.New(visual.Options{
		Locale:            e.cfg.UI.Locale,
		Location:          e.cfg.UI.Location(),
		PreserveSelection: e.cfg.UI.PreserveSelection,
		Logger:            e.log,
		Renderer:          r,
	})
	v.Update(dv)
	return v, nil
}

// pointByDay finds the data point dated day (YYYY-MM-DD in loc).
func pointByDay(vm *calendar.ViewModel, day string, loc *time.Location) (*calendar.DataPoint, error) {
	want, err := time.ParseInLocation("2006-01-02", day, loc)
	if err != nil {
		return nil, fmt.Errorf("parse day %q: %w", day, err)
	}
	for i := range vm.DataPoints {
		d := vm.DataPoints[i].Date
		if d == nil {
			continue
		}
		got := d.In(loc)
		if got.Year() == want.Year() && got.Month() == want.Month() && got.Day() == want.Day() {
			return &vm.DataPoints[i], nil
		}
	}
	return nil, fmt.Errorf("no data point on %s", day)
}

// writeAndClose encodes v to wc and closes it, reporting a failed close.
func writeAndClose(wc io.WriteCloser, v any, pretty bool) error {
	if err := writeJSON(wc, v, pretty); err != nil {
		_ = wc.Close()
		return err
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	return nil
}

func writeJSON(w io.Writer, v any, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}
