package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/lucasnoah/rigup/internal/artifact"
	"github.com/lucasnoah/rigup/internal/backup"
	"github.com/lucasnoah/rigup/internal/config"
	"github.com/lucasnoah/rigup/internal/db"
	"github.com/lucasnoah/rigup/internal/logging"
	"github.com/lucasnoah/rigup/internal/pipeline"
	"github.com/lucasnoah/rigup/internal/preflight"
	"github.com/lucasnoah/rigup/internal/prompt"
	"github.com/lucasnoah/rigup/internal/provision"
	"github.com/lucasnoah/rigup/internal/service"
)

var (
	provisionConfigPath    string
	provisionYes           bool
	provisionSkipPreflight bool
	provisionVerbose       bool
)

var provisionCmd = &cobra.Command{
	Use:   "provision",
	Short: "Provision the appliance end to end",
	Long: `Runs the full provisioning pipeline: preflight checks, backup of any
pre-existing state, environment and dependency installation, accelerator SDK
build, service registration, and launch artifact generation. The pipeline is
fail-fast: the first failing step aborts the run.`,
	RunE: runProvision,
}

func init() {
	provisionCmd.Flags().StringVarP(&provisionConfigPath, "config", "c", "", "path to rigup YAML config")
	provisionCmd.Flags().BoolVarP(&provisionYes, "yes", "y", false, "answer every prompt with its default (unattended)")
	provisionCmd.Flags().BoolVar(&provisionSkipPreflight, "skip-preflight", false, "skip host validation (not recommended)")
	provisionCmd.Flags().BoolVarP(&provisionVerbose, "verbose", "v", false, "debug logging")
}

func runProvision(cmd *cobra.Command, args []string) error {
	log := logging.New(provisionVerbose)
	ctx := cmd.Context()

	var cfg *config.Config
	var err error
	if provisionConfigPath != "" {
		cfg, err = config.Load(provisionConfigPath)
	} else {
		cfg, err = config.LoadDefault()
	}
	if err != nil {
		return err
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("get home dir: %w", err)
	}
	config.ResolvePaths(cfg, home)

	if errs := config.Validate(cfg); len(errs) > 0 {
		for _, e := range errs {
			log.Error().Msg(e.Error())
		}
		return fmt.Errorf("invalid config: %d error(s)", len(errs))
	}
	p := cfg.Provision

	var confirm prompt.Confirmer = prompt.TTYConfirmer{}
	if provisionYes {
		confirm = prompt.AssumeDefault{}
	}

	// Gate 1: preflight. Aborts before any mutation.
	if provisionSkipPreflight {
		log.Warn().Msg("preflight checks skipped")
	} else {
		if err := preflight.New(confirm, log).Check(ctx, p); err != nil {
			return err
		}
	}

	// Gate 2: backup any pre-existing mutable state before the pipeline may
	// destroy it. Best-effort; never blocks installation.
	bm := backup.NewManager(filepath.Dir(p.AppDir), log)
	bm.Snapshot(p.EnvDir, p.SDK.Dir)

	// Collaborators behind narrow interfaces; all exec-backed here.
	runCmd := provision.ExecRunner{}
	env := provision.NewEnvironment(p.EnvDir, p.Interpreter, runCmd, confirm, log)
	apt := &provision.ExecApt{Cmd: runCmd}
	pip := &provision.ExecPip{Pip: env.Pip(), Cmd: runCmd}
	repo := provision.NewRepo(p.SDK.URL, p.SDK.Dir, p.SDK.InstallScript,
		provision.ExecGit{}, runCmd, confirm, log)
	verifier := &provision.Verifier{Python: env.Python(), Cmd: runCmd}
	registrar := service.NewRegistrar(service.ExecSystemd{}, log)
	gen := &artifact.Generator{Log: log}

	def := serviceDefinition(p)
	params := artifact.Params{
		Name:              p.Service.Name,
		AppDir:            p.AppDir,
		EnvDir:            p.EnvDir,
		HomeDir:           home,
		AcceleratorLibDir: p.Artifacts.AcceleratorLibDir,
		PluginDir:         p.Artifacts.PluginDir,
		SessionDelaySec:   p.Artifacts.SessionDelaySec,
		Terminal:          p.Artifacts.Terminal,
	}

	steps := buildSteps(p, env, apt, pip, repo, verifier, registrar, gen, def, params, log)

	store, err := pipeline.DefaultStore()
	if err != nil {
		return err
	}
	run, err := store.Create(pipeline.HostPaths{
		AppDir:   p.AppDir,
		RepoRoot: p.SDK.Dir,
		HomeDir:  home,
	}, len(steps))
	if err != nil {
		return err
	}

	var rec pipeline.Recorder
	if dbPath, err := db.DefaultDBPath(); err == nil {
		if history, err := db.Open(dbPath); err == nil {
			if err := history.Migrate(); err == nil {
				rec = history
				defer history.Close()
			} else {
				history.Close()
				log.Warn().Err(err).Msg("history database unavailable")
			}
		}
	}

	runner := pipeline.NewRunner(log, store, rec)
	if err := runner.Run(ctx, run, steps); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Provisioning complete.")
	fmt.Fprintf(out, "  Re-enter the environment with: source %s/bin/activate\n", p.EnvDir)
	fmt.Fprintf(out, "  Service %q is enabled and will start automatically on next boot.\n", p.Service.Name)
	return nil
}

// serviceDefinition maps config to the unit the registrar installs. The
// pre-start hook prints host network identification through this same
// binary, best-effort.
func serviceDefinition(p config.Provision) service.Definition {
	preStart := ""
	if exe, err := os.Executable(); err == nil {
		preStart = exe + " netinfo"
	}
	return service.Definition{
		Name:         p.Service.Name,
		Description:  "rigup appliance (camera + accelerator display)",
		WorkingDir:   p.AppDir,
		Environment:  map[string]string{"DISPLAY": ":0", "PYTHONUNBUFFERED": "1"},
		PreStart:     preStart,
		ExecStart:    p.Service.StartCommand,
		RestartDelay: p.Service.RestartSec,
	}
}
