// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"vcdemo-cli/internal/config"
	"vcdemo-cli/internal/container"
	"vcdemo-cli/internal/issue"
	"vcdemo-cli/internal/provision"
	"vcdemo-cli/pkg/demofile"
	"vcdemo-cli/pkg/types"
)

var (
	buildFile  string
	buildForce bool

	// buildCmd builds the demo container image from a demofile.
	buildCmd = &cobra.Command{
		Use:   "build",
		Short: "Build the demo container image from a demofile",
		Long: `Build the demo container image from a demofile.

The demofile (CUE format) declares the base image, fetched tools, pip
requirement sets, directories, copies, and the container entrypoint.
Images are content-hashed: an unchanged demofile reuses the cached image.`,
		RunE: runBuild,
	}
)

func init() {
	buildCmd.Flags().StringVarP(&buildFile, "file", "f", "", "path to the demofile (default: ./demofile.cue)")
	buildCmd.Flags().BoolVar(&buildForce, "force-rebuild", false, "skip the image cache and rebuild")
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	path, err := resolveDemofilePath(buildFile, cfg)
	if err != nil {
		return err
	}

	d, err := demofile.Parse(types.FilesystemPath(path))
	if err != nil {
		return fmt.Errorf("failed to load demofile %s: %w", path, err)
	}
	printDemofileWarnings(d)

	engine, err := container.NewEngine(container.EngineType(cfg.ContainerEngine))
	if err != nil {
		rendered, _ := issue.Get(issue.ContainerEngineNotFoundId).Render("dark")
		fmt.Fprint(os.Stderr, rendered)
		return err
	}

	buildCfg := provision.DefaultConfig()
	if buildForce {
		buildCfg.Apply(provision.WithForceRebuild(true))
	}

	builder := provision.NewImageBuilder(engine, buildCfg)

	fmt.Printf("%s %s\n", SubtitleStyle.Render("Building from"), CmdStyle.Render(path))
	result, err := builder.Build(cmd.Context(), d)
	if err != nil {
		rendered, _ := issue.Get(issue.ImageBuildFailedId).Render("dark")
		fmt.Fprint(os.Stderr, rendered)
		return err
	}

	if result.CacheHit {
		fmt.Printf("%s Image %s is up to date (cache hit)\n", SuccessStyle.Render("✓"), CmdStyle.Render(result.ImageTag.String()))
	} else {
		fmt.Printf("%s Built image %s\n", SuccessStyle.Render("✓"), CmdStyle.Render(result.ImageTag.String()))
	}
	return nil
}

// resolveDemofilePath picks the demofile to use: the --file flag, then the
// configured override, then demofile.cue in the working directory.
func resolveDemofilePath(flagPath string, cfg *config.Config) (string, error) {
	if flagPath != "" {
		return flagPath, nil
	}
	if cfg != nil && cfg.Demofile != "" {
		return cfg.Demofile.String(), nil
	}

	if _, err := os.Stat(demofile.DefaultFileName); err == nil {
		return demofile.DefaultFileName, nil
	}

	rendered, _ := issue.Get(issue.DemofileNotFoundId).Render("dark")
	fmt.Fprint(os.Stderr, rendered)
	return "", fmt.Errorf("no demofile found: create one with 'vcdemo init' or pass --file")
}

// printDemofileWarnings surfaces warning-level validation issues on stderr.
// Warnings never block a build.
func printDemofileWarnings(d *demofile.Demofile) {
	for _, w := range d.Warnings {
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+w.Error())
	}
}
