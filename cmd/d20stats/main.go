// Package main provides the CLI entrypoint for d20stats.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/d20stats/internal/analyze"
	"github.com/verte-zerg/d20stats/internal/config"
	"github.com/verte-zerg/d20stats/internal/console"
	"github.com/verte-zerg/d20stats/internal/generator"
	"github.com/verte-zerg/d20stats/internal/model"
	"github.com/verte-zerg/d20stats/internal/prompt"
	"github.com/verte-zerg/d20stats/internal/stats"
	"github.com/verte-zerg/d20stats/internal/store"
	"github.com/verte-zerg/d20stats/internal/tracker"
)

const (
	defaultSimulateRolls = 10
	defaultRunsLast      = 20
)

var (
	analyzeOut     string
	analyzeArchive bool
	analyzeXLSX    bool
	analyzeFaces   int
	analyzeStrict  bool

	simulateRolls int
	simulateSeed  int64
	simulateDir   string

	backupDir string

	recordDir string

	clearDir string
	clearYes bool

	runsLast int
	runsRun  int64
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "d20stats [data-dir]",
		Short:         "Analyze d20 roll statistics and render charts",
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.MaximumNArgs(1),
		RunE:          runAnalyzeCmd,
	}

	rootCmd.Flags().StringVar(&analyzeOut, "out", config.DefaultOutputDir, "output directory for charts and the PDF report")
	rootCmd.Flags().BoolVar(&analyzeArchive, "archive", false, "archive this run in the local database")
	rootCmd.Flags().BoolVar(&analyzeXLSX, "xlsx", false, "also export the statistics to a spreadsheet")
	rootCmd.PersistentFlags().IntVar(&analyzeFaces, "faces", model.DefaultFaces, "number of die faces")
	rootCmd.PersistentFlags().BoolVar(&analyzeStrict, "strict", false, "require history markers at the start of a line")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newRecordCmd())
	rootCmd.AddCommand(newSimulateCmd())
	rootCmd.AddCommand(newClearCmd())
	rootCmd.AddCommand(newBackupCmd())
	rootCmd.AddCommand(newRunsCmd())

	return rootCmd
}

// loadAnalysisConfig layers defaults, the config file, .env and D20STATS_* variables, then flags
// the user set explicitly.
func loadAnalysisConfig(cmd *cobra.Command) (model.AnalysisConfig, error) {
	cfg := config.Defaults()
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return cfg, fmt.Errorf("failed to load config: %w", err)
	}
	fileCfg.Apply(&cfg)

	if err := config.LoadDotEnv(".env"); err != nil {
		return cfg, err
	}
	envCfg, err := config.ParseEnv()
	if err != nil {
		return cfg, err
	}
	envCfg.Apply(&cfg)

	applyStringFlag(cmd, "out", &cfg.OutputDir, analyzeOut)
	applyBoolFlag(cmd, "archive", &cfg.Archive, analyzeArchive)
	applyBoolFlag(cmd, "xlsx", &cfg.Workbook, analyzeXLSX)
	if cmd.Flags().Changed("faces") {
		cfg.Die = model.Die{Faces: analyzeFaces}
	}
	applyBoolFlag(cmd, "strict", &cfg.Markers.Strict, analyzeStrict)

	if err := config.Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func runAnalyzeCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadAnalysisConfig(cmd)
	if err != nil {
		return err
	}
	dataDir := ""
	if len(args) > 0 {
		dataDir = args[0]
	}

	printer := console.New(cmd.OutOrStdout(), cmd.ErrOrStderr())
	analyzer := &analyze.Analyzer{
		Config:  cfg,
		Printer: printer,
		Ask: func() (string, error) {
			return prompt.Ask(os.Stdin, cmd.OutOrStdout())
		},
		DBPath: config.DefaultDBPath(),
	}
	_, err = analyzer.Run(cmd.Context(), dataDir)
	return err
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

func newRecordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "record <name> [rolls...]",
		Short: "Record a session of rolls for one character",
		Long:  "Record a session of rolls for one character. Without rolls, values are read from stdin until the first non-numeric word.",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runRecordCmd,
	}
	cmd.Flags().StringVar(&recordDir, "dir", "", "data directory (default from config)")
	return cmd
}

func runRecordCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadAnalysisConfig(cmd)
	if err != nil {
		return err
	}
	dir := cfg.DataDir
	applyStringFlag(cmd, "dir", &dir, recordDir)
	name := args[0]
	printer := console.New(cmd.OutOrStdout(), cmd.ErrOrStderr())

	var rolls []int
	if len(args) > 1 {
		rolls, err = tracker.ParseRolls(args[1:], cfg.Die)
		if err != nil {
			return err
		}
	} else {
		printer.Infof("Iniciar registros de rolagem (1 a %d)", cfg.Die.Faces)
		printer.Infof("Digite qualquer coisa invalida para encerrar")
		rolls, err = tracker.ReadRolls(cmd.InOrStdin(), cmd.OutOrStdout(), cfg.Die)
		if err != nil {
			return err
		}
	}
	if len(rolls) == 0 {
		printer.Noticef("Nenhuma rolagem registrada para %s.", name)
		return nil
	}

	character, err := tracker.Load(dir, name, cfg.Die, cfg.Markers)
	if err != nil {
		return err
	}
	character.Record(rolls)
	if err := character.WriteFiles(dir); err != nil {
		return err
	}
	figures := character.Figures()
	printer.Successf("%s: sessão %d registrada com %d rolagens (média %.2f)", name, figures.TotalSessions, len(rolls), figures.SessionMean)
	return nil
}

func newSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate [names...]",
		Short: "Roll one session for each character and update their files",
		RunE:  runSimulateCmd,
	}
	cmd.Flags().IntVar(&simulateRolls, "rolls", defaultSimulateRolls, "rolls per character")
	cmd.Flags().Int64Var(&simulateSeed, "seed", 0, "random seed (0 picks one)")
	cmd.Flags().StringVar(&simulateDir, "dir", "", "data directory (default from config)")
	return cmd
}

func runSimulateCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadAnalysisConfig(cmd)
	if err != nil {
		return err
	}
	if simulateRolls <= 0 {
		return fmt.Errorf("rolls must be > 0")
	}
	dir := cfg.DataDir
	applyStringFlag(cmd, "dir", &dir, simulateDir)
	names := cfg.Roster
	if len(args) > 0 {
		names = args
	}

	gen := generator.New()
	if cmd.Flags().Changed("seed") && simulateSeed != 0 {
		gen = generator.NewSeeded(simulateSeed)
	}
	printer := console.New(cmd.OutOrStdout(), cmd.ErrOrStderr())
	for _, name := range names {
		character, err := tracker.Load(dir, name, cfg.Die, cfg.Markers)
		if err != nil {
			return err
		}
		rolls := gen.Rolls(simulateRolls, cfg.Die.Faces)
		character.Record(rolls)
		if err := character.WriteFiles(dir); err != nil {
			return err
		}
		printer.Infof("%s: sessão %d registrada %v", name, len(character.History), rolls)
	}
	printer.Noticef("Semente: %d", gen.Seed())
	return nil
}

func newBackupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Copy the roster's files into the backup directory",
		Args:  cobra.NoArgs,
		RunE:  runBackupCmd,
	}
	cmd.Flags().StringVar(&backupDir, "to", "", "backup directory (default from config)")
	return cmd
}

func runBackupCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadAnalysisConfig(cmd)
	if err != nil {
		return err
	}
	dest := cfg.BackupDir
	applyStringFlag(cmd, "to", &dest, backupDir)
	copied, err := tracker.Backup(cfg.DataDir, dest, cfg.Roster)
	if err != nil {
		return err
	}
	console.New(cmd.OutOrStdout(), cmd.ErrOrStderr()).Successf("%d arquivos copiados para '%s'", copied, dest)
	return nil
}

func newClearCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Back up and delete every roster character's files",
		Args:  cobra.NoArgs,
		RunE:  runClearCmd,
	}
	cmd.Flags().StringVar(&clearDir, "dir", "", "data directory (default from config)")
	cmd.Flags().BoolVar(&clearYes, "yes", false, "skip the confirmation question")
	return cmd
}

func runClearCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadAnalysisConfig(cmd)
	if err != nil {
		return err
	}
	dir := cfg.DataDir
	applyStringFlag(cmd, "dir", &dir, clearDir)
	printer := console.New(cmd.OutOrStdout(), cmd.ErrOrStderr())

	if !clearYes {
		printer.Noticef("ATENÇÃO: Esta opção irá apagar todos os arquivos de histórico e estatísticas.")
		if _, err := fmt.Fprint(cmd.OutOrStdout(), "Tem certeza que deseja continuar? (S/N): "); err != nil {
			return err
		}
		answer, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("failed to read confirmation: %w", err)
		}
		if !strings.EqualFold(strings.TrimSpace(answer), "s") {
			printer.Infof("Operação cancelada.")
			return nil
		}
	}

	copied, removed, err := tracker.Clear(dir, cfg.BackupDir, cfg.Roster)
	if err != nil {
		return err
	}
	printer.Infof("%d arquivos copiados para '%s'", copied, cfg.BackupDir)
	printer.Successf("%d arquivos removidos de '%s'", removed, dir)
	return nil
}

func newRunsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List archived analysis runs",
		Args:  cobra.NoArgs,
		RunE:  runRunsCmd,
	}
	cmd.Flags().IntVar(&runsLast, "last", defaultRunsLast, "limit to last N runs (0 lists all)")
	cmd.Flags().Int64Var(&runsRun, "run", 0, "show the character figures archived by run ID")
	return cmd
}

func runRunsCmd(cmd *cobra.Command, _ []string) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	if runsRun > 0 {
		chars, err := st.ListRunCharacters(cmd.Context(), runsRun)
		if err != nil {
			return fmt.Errorf("failed to list run %d: %w", runsRun, err)
		}
		if len(chars) == 0 {
			return fmt.Errorf("run %d not found or empty", runsRun)
		}
		return stats.RenderSummary(cmd.OutOrStdout(), stats.BuildReport(chars, nil))
	}

	runs, err := st.ListRuns(cmd.Context(), runsLast)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	return stats.RenderRuns(cmd.OutOrStdout(), runs)
}

func applyStringFlag(cmd *cobra.Command, name string, target *string, value string) {
	if !cmd.Flags().Changed(name) {
		return
	}
	*target = value
}

func applyBoolFlag(cmd *cobra.Command, name string, target *bool, value bool) {
	if !cmd.Flags().Changed(name) {
		return
	}
	*target = value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# d20stats configuration
# Uncomment a value to enable it. D20STATS_* variables and CLI flags override config values.

[analysis]
# data-dir = %q          # Directory searched for character files
# backup-dir = %q     # Fallback directory and backup destination
# output-dir = %q          # Chart and report output directory
# report-name = %q
# roster = [%s]
# faces = %d                       # Die faces
# archive = false                  # Archive every run in the local database
# workbook = false                 # Export the statistics to a spreadsheet

[history]
# session-marker = %q
# roll-marker = %q
# separator = %q
# strict = false                   # Markers must start the line
`,
		config.DefaultDataDir,
		config.DefaultBackupDir,
		config.DefaultOutputDir,
		config.DefaultReportName,
		quoteList(config.DefaultRoster),
		model.DefaultFaces,
		config.DefaultSessionMarker,
		config.DefaultRollMarker,
		config.DefaultSeparator,
	)
}

func quoteList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	return strings.Join(quoted, ", ")
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
