// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"vcdemo-cli/pkg/demofile"
)

var (
	initForce bool

	// initCmd creates a new demofile
	initCmd = &cobra.Command{
		Use:   "init [filename]",
		Short: "Create a new demofile in the current directory",
		Long: `Create a new demofile in the current directory.

This command generates the stock supply-chain demofile: the demo base
image, fetched tools, pip requirement sets, and the wrapper entrypoint.
Edit it to match your demo before building.`,
		RunE: runInit,
	}
)

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite existing demofile")
}

func runInit(cmd *cobra.Command, args []string) error {
	filename := demofile.DefaultFileName
	if len(args) > 0 {
		filename = args[0]
	}

	if _, err := os.Stat(filename); err == nil && !initForce {
		return fmt.Errorf("file '%s' already exists. Use --force to overwrite", filename)
	}

	content := demofile.GenerateCUE(demofile.Default())

	if err := os.WriteFile(filename, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	absPath, _ := filepath.Abs(filename)
	fmt.Printf("%s Created %s\n", SuccessStyle.Render("✓"), absPath)
	fmt.Println()
	fmt.Println(SubtitleStyle.Render("Next steps:"))
	fmt.Println("  1. Edit the demofile to match your demo")
	fmt.Println("  2. Run 'vcdemo build' to build the image")
	fmt.Println("  3. Run 'vcdemo run issuer' to start a scenario")

	return nil
}
