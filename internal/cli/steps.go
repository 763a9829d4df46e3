package cli

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/lucasnoah/rigup/internal/artifact"
	"github.com/lucasnoah/rigup/internal/config"
	"github.com/lucasnoah/rigup/internal/pipeline"
	"github.com/lucasnoah/rigup/internal/provision"
	"github.com/lucasnoah/rigup/internal/service"
)

// buildSteps assembles the ordered pipeline. The registrar runs before the
// artifact generator so an artifact failure degrades only the GUI launch
// path, never the service auto-start path.
func buildSteps(
	p config.Provision,
	env *provision.Environment,
	apt provision.AptInstaller,
	pip provision.PipInstaller,
	repo *provision.Repo,
	verifier *provision.Verifier,
	registrar *service.Registrar,
	gen *artifact.Generator,
	def service.Definition,
	params artifact.Params,
	log zerolog.Logger,
) []pipeline.Step {
	return []pipeline.Step{
		{
			Ordinal: 1,
			Label:   "Creating execution environment",
			Op:      env.Ensure,
		},
		{
			Ordinal: 2,
			Label:   "Installing system libraries",
			Op: func(ctx context.Context) error {
				return apt.Install(ctx, p.Packages.Apt)
			},
		},
		{
			Ordinal: 3,
			Label:   "Installing Python dependencies",
			Op: func(ctx context.Context) error {
				if err := pip.InstallRequirements(ctx, p.Packages.Requirements); err != nil {
					return err
				}
				if p.Packages.EditableInstall {
					return pip.InstallEditable(ctx, p.AppDir)
				}
				return nil
			},
		},
		{
			Ordinal: 4,
			Label:   "Provisioning accelerator SDK",
			Op: func(ctx context.Context) error {
				if err := repo.Ensure(ctx); err != nil {
					return err
				}
				return repo.Install(ctx, provision.InstallFlags{
					TargetPlatform: p.SDK.TargetPlatform,
					SkipRuntime:    p.SDK.SkipRuntime,
				})
			},
		},
		{
			Ordinal: 5,
			Label:   "Verifying vision stack",
			Op: func(ctx context.Context) error {
				version, err := verifier.SmokeCheck(ctx)
				if err != nil {
					return err
				}
				log.Info().Msgf("cv2 %s importable from the environment", version)
				return nil
			},
		},
		{
			Ordinal: 6,
			Label:   "Registering system service",
			Op: func(ctx context.Context) error {
				return registrar.Register(ctx, def)
			},
		},
		{
			Ordinal: 7,
			Label:   "Generating launch artifacts",
			Op: func(ctx context.Context) error {
				_, err := gen.Generate(params)
				return err
			},
		},
	}
}
