// Package commands implements the plan CLI.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	service "github.com/okian/sinfonia/internal/app"
	"github.com/okian/sinfonia/internal/config"
	"github.com/okian/sinfonia/internal/printer"
	"github.com/okian/sinfonia/pkg/logger"
)

var versionString = "dev"

// SetVersionInfo sets the version shown by --version.
func SetVersionInfo(v, c, d string) {
	versionString = fmt.Sprintf("%s (commit: %s, built: %s)", v, c, d)
}

// globals holds the persistent flags shared by every command.
type globals struct {
	configPath string
	artists    string
	houses     string
	setlist    string
	report     string
	verbose    bool

	out io.Writer
	err io.Writer
	p   *printer.Printer
}

// NewRootCommand builds the command tree writing to out and errOut.
func NewRootCommand(out, errOut io.Writer) *cobra.Command {
	g := &globals{out: out, err: errOut, p: printer.New(out, errOut)}

	root := &cobra.Command{
		Use:   "plan",
		Short: "Plan concert staffing from roster files",
		Long: `plan loads the artists, the house artist names and the setlist,
then answers staffing questions in a single run: which roles are
missing, who gets hired and at what price, and how many trainings
would make hiring unnecessary.

Every run starts from the roster files; nothing is kept between runs.
Use --export to write the resulting allocation report.`,
		Version: versionString,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	pf.StringVarP(&g.configPath, "config", "c", os.Getenv(config.EnvConfigFile), "YAML config file")
	pf.StringVar(&g.artists, "artists", "", "Artists file (overrides artists_path)")
	pf.StringVar(&g.houses, "houses", "", "House artist names file (overrides house_names_path)")
	pf.StringVar(&g.setlist, "setlist", "", "Setlist file (overrides setlist_path)")
	pf.StringVar(&g.report, "report", "", "Report file written by --export (overrides report_path)")
	pf.BoolVarP(&g.verbose, "verbose", "v", false, "Log service activity to stderr")

	root.AddCommand(
		newStatusCommand(g),
		newHireCommand(g),
		newTrainingsCommand(g),
	)
	return root
}

// Execute runs the CLI against the process's standard streams.
func Execute() error {
	return NewRootCommand(os.Stdout, os.Stderr).Execute()
}

// run is one loaded roster behind a started service.
type run struct {
	cfg *config.Config
	svc *service.Service
	id  string
}

func (g *globals) loadConfig(ctx context.Context) (*config.Config, error) {
	cfg, err := config.LoadFile(ctx, g.configPath)
	if err != nil {
		return nil, err
	}
	for dst, src := range map[*string]string{
		&cfg.ArtistsPath:    g.artists,
		&cfg.HouseNamesPath: g.houses,
		&cfg.SetlistPath:    g.setlist,
		&cfg.ReportPath:     g.report,
	} {
		if src != "" {
			*dst = src
		}
	}
	return cfg, nil
}

// open loads the roster into a fresh session. The caller must call close.
func (g *globals) open(ctx context.Context, opts ...service.Option) (*run, error) {
	cfg, err := g.loadConfig(ctx)
	if err != nil {
		return nil, g.p.Error("Invalid configuration", err.Error(), []string{
			"Check the file passed with --config and any SINFONIA_* variables.",
		})
	}

	level := "warn"
	if g.verbose {
		level = cfg.LogLevel
	}
	log, err := logger.New(g.err, cfg.LogFormat, parseLevel(level))
	if err != nil {
		return nil, g.p.Error("Invalid configuration", err.Error(), nil)
	}

	base := append(service.ConfigOptions(cfg),
		service.WithLogger(log.Named("plan")),
		service.WithSolverWorkers(0),
		service.WithSessionIdleTTL(0),
	)
	svc := service.New(append(base, opts...)...)
	if err := svc.Start(ctx); err != nil {
		return nil, g.p.Error("Could not start", err.Error(), nil)
	}

	id, err := svc.OpenSession(ctx)
	if err != nil {
		svc.Stop()
		return nil, g.p.Error("Could not load the roster", err.Error(), []string{
			fmt.Sprintf("Check that %s, %s and %s exist and are valid JSON or YAML.",
				cfg.ArtistsPath, cfg.HouseNamesPath, cfg.SetlistPath),
		})
	}
	return &run{cfg: cfg, svc: svc, id: id}, nil
}

func (r *run) close() { r.svc.Stop() }

func parseLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return l
}
