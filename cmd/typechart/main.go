// Package main provides the CLI entrypoint for typechart.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/verte-zerg/typechart/internal/config"
	"github.com/verte-zerg/typechart/internal/loader"
	"github.com/verte-zerg/typechart/internal/model"
	"github.com/verte-zerg/typechart/internal/render"
	"github.com/verte-zerg/typechart/internal/stats"
	"github.com/verte-zerg/typechart/internal/statsui"
	"github.com/verte-zerg/typechart/internal/store"
	"github.com/verte-zerg/typechart/internal/trend"
)

const (
	defaultOut       = "typechart.png"
	defaultLogLevel  = "info"
	defaultLogFormat = "console"
	defaultDBMarker  = "tuipe"
)

var (
	inputDB         string
	inputLang       string
	inputSince      string
	inputTimeColumn string
	inputWPMColumn  string
	logLevel        string
	logFormat       string

	chartOut    string
	chartWidth  int
	chartHeight int

	exportOut string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "typechart [files...]",
		Short:         "Plot typing speed trends",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPlotCmd,
	}
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&inputDB, "db", "", "read sessions from a tuipe database (--db=PATH; bare --db uses the default tuipe path)")
	flags.Lookup("db").NoOptDefVal = defaultDBMarker
	flags.StringVar(&inputLang, "lang", "", "language filter for database sessions")
	flags.StringVar(&inputSince, "since", "", "start date (YYYY-MM-DD)")
	flags.StringVar(&inputTimeColumn, "time-column", loader.DefaultTimeColumn, "CSV timestamp column")
	flags.StringVar(&inputWPMColumn, "wpm-column", loader.DefaultWPMColumn, "CSV WPM column")
	flags.StringVar(&logLevel, "log-level", defaultLogLevel, "log level (debug, info, warn, error)")
	flags.StringVar(&logFormat, "log-format", defaultLogFormat, "log format (console, json)")
	addChartFlags(rootCmd)

	plotCmd := &cobra.Command{
		Use:   "plot [files...]",
		Short: "Render the trend chart to an image",
		RunE:  runPlotCmd,
	}
	addChartFlags(plotCmd)

	rootCmd.AddCommand(plotCmd)
	rootCmd.AddCommand(newReportCmd())
	rootCmd.AddCommand(newViewCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newConfigCmd())
	return rootCmd
}

func addChartFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&chartOut, "out", "o", defaultOut, "output image (.png or .svg)")
	cmd.Flags().IntVar(&chartWidth, "width", render.DefaultWidth, "image width in pixels")
	cmd.Flags().IntVar(&chartHeight, "height", render.DefaultHeight, "image height in pixels")
}

// session bundles what every data command needs after flags and config are merged.
type session struct {
	log    *zap.Logger
	src    stats.SessionSource
	since  *time.Time
	closer func()
}

func (s *session) close() {
	if s.closer != nil {
		s.closer()
	}
	if err := s.log.Sync(); err != nil {
		// Best-effort flush; stderr sync fails on some terminals.
		_ = err
	}
}

func prepare(cmd *cobra.Command, args []string) (*session, config.FileConfig, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return nil, fileCfg, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "time-column", &inputTimeColumn, fileCfg.Input.TimeColumn)
	applyStringConfig(cmd, "wpm-column", &inputWPMColumn, fileCfg.Input.WPMColumn)
	applyStringConfig(cmd, "log-level", &logLevel, fileCfg.Log.Level)
	applyStringConfig(cmd, "log-format", &logFormat, fileCfg.Log.Format)

	log, err := config.NewLogger(logLevel, logFormat)
	if err != nil {
		return nil, fileCfg, fmt.Errorf("failed to create logger: %w", err)
	}

	since, err := trend.ParseSince(inputSince)
	if err != nil {
		return nil, fileCfg, err
	}

	in := model.InputConfig{
		Files:      args,
		DBPath:     resolveDBPath(cmd, args, fileCfg.Input.DB),
		Lang:       strings.TrimSpace(inputLang),
		Since:      since,
		TimeColumn: inputTimeColumn,
		WPMColumn:  inputWPMColumn,
	}
	s := &session{log: log, since: since}
	if err := s.open(in); err != nil {
		s.close()
		return nil, fileCfg, err
	}
	return s, fileCfg, nil
}

func (s *session) open(in model.InputConfig) error {
	if len(in.Files) > 0 {
		s.src = stats.CSVSource{
			Loader: loader.New(in.TimeColumn, in.WPMColumn, s.log),
			Paths:  in.Files,
		}
		return nil
	}
	if in.DBPath == "" {
		return fmt.Errorf("no input: pass CSV files or --db")
	}
	st, err := store.Open(in.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	s.log.Info("Reading sessions from database", zap.String("path", in.DBPath), zap.String("lang", in.Lang))
	s.closer = func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}
	// since stays out of the query so the viewer can widen it later.
	s.src = stats.DBSource{Store: st, Filter: store.Filter{Lang: in.Lang}}
	return nil
}

// resolveDBPath returns the database to read when no CSV files are given.
// A bare --db or a config db of "tuipe" means the default tuipe location.
func resolveDBPath(cmd *cobra.Command, args []string, cfgDB *string) string {
	if len(args) > 0 {
		return ""
	}
	path := inputDB
	if !cmd.Flags().Changed("db") && cfgDB != nil {
		path = *cfgDB
	}
	path = strings.TrimSpace(path)
	if path == defaultDBMarker {
		return config.DefaultTuipeDBPath()
	}
	return path
}

func buildReport(s *session) (stats.Report, error) {
	report, err := stats.BuildReport(context.Background(), s.src, s.since, trend.DefaultParams())
	switch {
	case errors.Is(err, loader.ErrNoData):
		logErrln("No CSV files could be loaded successfully!")
		return stats.Report{}, err
	case errors.Is(err, trend.ErrEmptyDataset):
		logErrln("No data to show.")
		return stats.Report{}, err
	case err != nil:
		return stats.Report{}, fmt.Errorf("failed to build report: %w", err)
	}
	return report, nil
}

func runPlotCmd(cmd *cobra.Command, args []string) error {
	s, fileCfg, err := prepare(cmd, args)
	if err != nil {
		return err
	}
	defer s.close()
	applyStringConfig(cmd, "out", &chartOut, fileCfg.Chart.Out)
	applyIntConfig(cmd, "width", &chartWidth, fileCfg.Chart.Width)
	applyIntConfig(cmd, "height", &chartHeight, fileCfg.Chart.Height)
	if chartWidth <= 0 || chartHeight <= 0 {
		return fmt.Errorf("--width and --height must be > 0")
	}

	report, err := buildReport(s)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), stats.StatisticsText(report.Summary)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	chartCfg := model.ChartConfig{Out: chartOut, Width: chartWidth, Height: chartHeight}
	if err := writeFile(chartCfg.Out, func(w io.Writer) error {
		return render.Render(w, report.Result, chartCfg)
	}); err != nil {
		return err
	}
	s.log.Info("Saved chart", zap.String("path", chartCfg.Out), zap.String("axis", report.Axis.Pattern))
	return nil
}

func newReportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report [files...]",
		Short: "Print the trend report to the terminal",
		RunE:  runReportCmd,
	}
}

func runReportCmd(cmd *cobra.Command, args []string) error {
	s, _, err := prepare(cmd, args)
	if err != nil {
		return err
	}
	defer s.close()
	report, err := buildReport(s)
	if err != nil {
		return err
	}
	if err := stats.RenderReport(cmd.OutOrStdout(), report, 0, false); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newViewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "view [files...]",
		Short: "Browse trends interactively",
		RunE:  runViewCmd,
	}
}

func runViewCmd(cmd *cobra.Command, args []string) error {
	s, _, err := prepare(cmd, args)
	if err != nil {
		return err
	}
	defer s.close()
	m := statsui.NewModel(s.src, s.since, trend.DefaultParams())
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run viewer: %w", err)
	}
	return nil
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [files...]",
		Short: "Write the smoothed daily series as CSV",
		RunE:  runExportCmd,
	}
	cmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default: stdout)")
	return cmd
}

func runExportCmd(cmd *cobra.Command, args []string) error {
	s, _, err := prepare(cmd, args)
	if err != nil {
		return err
	}
	defer s.close()
	report, err := buildReport(s)
	if err != nil {
		return err
	}
	if exportOut == "" {
		return stats.WriteCSV(cmd.OutOrStdout(), report.Series)
	}
	if err := writeFile(exportOut, func(w io.Writer) error {
		return stats.WriteCSV(w, report.Series)
	}); err != nil {
		return err
	}
	s.log.Info("Exported daily series", zap.String("path", exportOut), zap.Int("days", len(report.Series)))
	return nil
}

// writeFile writes through a temp file in the target directory and renames
// it into place.
func writeFile(path string, write func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	tmpFile, err := os.CreateTemp(dir, ".typechart-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()
	if err := write(tmpFile); err != nil {
		return err
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# typechart configuration
# Uncomment a value to enable it. CLI flags override config values.

[input]
# time-column = %q   # CSV timestamp column
# wpm-column = %q                 # CSV WPM column
# db = %q                       # Read a tuipe database when no files are given ("tuipe" = default path)

[chart]
# out = %q          # Output image (.png or .svg)
# width = %d                     # Image width in pixels
# height = %d                     # Image height in pixels

[log]
# level = %q                    # debug, info, warn, error
# format = %q                # console or json
`,
		loader.DefaultTimeColumn,
		loader.DefaultWPMColumn,
		defaultDBMarker,
		defaultOut,
		render.DefaultWidth,
		render.DefaultHeight,
		defaultLogLevel,
		defaultLogFormat,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
