// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"vcdemo-cli/internal/config"
	"vcdemo-cli/internal/issue"
)

// configCmd is the `vcdemo config` command tree.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage vcdemo configuration",
	Long: `Manage vcdemo configuration.

Configuration is stored in:
  - Linux: ~/.config/vcdemo/config.cue
  - macOS: ~/Library/Application Support/vcdemo/config.cue
  - Windows: %APPDATA%\vcdemo\config.cue`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func init() {
	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig()
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfigFile()
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfigPath()
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output raw configuration as CUE",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			fmt.Print(config.GenerateCUE(cfg))
			return nil
		},
	})
}

func showConfig() error {
	cfg, err := config.Load()
	if err != nil {
		rendered, _ := issue.Get(issue.ConfigLoadFailedId).Render("dark")
		fmt.Fprint(os.Stderr, rendered)
		return err
	}

	keyStyle := CmdStyle
	valueStyle := SuccessStyle

	fmt.Println(TitleStyle.Render("Current Configuration"))
	fmt.Println()

	cfgPath := config.ConfigFilePath()
	if cfgPath != "" && fileExistsCheck(cfgPath) {
		fmt.Printf("%s: %s\n", keyStyle.Render("Config file"), cfgPath)
	} else {
		fmt.Printf("%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Println()

	fmt.Printf("%s: %s\n", keyStyle.Render("container_engine"), valueStyle.Render(cfg.ContainerEngine.String()))
	if cfg.Demofile != "" {
		fmt.Printf("%s: %s\n", keyStyle.Render("demofile"), valueStyle.Render(cfg.Demofile.String()))
	} else {
		fmt.Printf("%s: %s\n", keyStyle.Render("demofile"), SubtitleStyle.Render("(search default locations)"))
	}

	fmt.Println()
	fmt.Printf("%s:\n", keyStyle.Render("tunnel"))
	fmt.Printf("  api_url: %s\n", valueStyle.Render(cfg.Tunnel.APIURL))
	fmt.Printf("  timeout_seconds: %s\n", valueStyle.Render(fmt.Sprintf("%d", cfg.Tunnel.TimeoutSeconds)))

	fmt.Println()
	fmt.Printf("%s:\n", keyStyle.Render("agent"))
	fmt.Printf("  base_port: %s\n", valueStyle.Render(cfg.Agent.BasePort.String()))
	if cfg.Agent.LabelPrefix != "" {
		fmt.Printf("  label_prefix: %s\n", valueStyle.Render(cfg.Agent.LabelPrefix))
	}
	fmt.Printf("  wallet_type: %s\n", valueStyle.Render(cfg.Agent.WalletType.String()))
	if cfg.Agent.GenesisURL != "" {
		fmt.Printf("  genesis_url: %s\n", valueStyle.Render(cfg.Agent.GenesisURL))
	}
	fmt.Printf("  no_auto: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.Agent.NoAuto)))

	fmt.Println()
	fmt.Printf("%s:\n", keyStyle.Render("build"))
	if cfg.Build.CacheDir != "" {
		fmt.Printf("  cache_dir: %s\n", valueStyle.Render(cfg.Build.CacheDir.String()))
	} else {
		fmt.Printf("  cache_dir: %s\n", SubtitleStyle.Render("(default)"))
	}
	fmt.Printf("  force_rebuild: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.Build.ForceRebuild)))

	fmt.Println()
	fmt.Printf("%s:\n", keyStyle.Render("ui"))
	fmt.Printf("  color_scheme: %s\n", valueStyle.Render(cfg.UI.ColorScheme.String()))
	fmt.Printf("  verbose: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.UI.Verbose)))

	return nil
}

func initConfigFile() error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	if err = config.CreateDefaultConfig(); err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}

	fmt.Printf("%s Created default configuration at %s/config.cue\n", SuccessStyle.Render("✓"), cfgDir)

	if err := config.EnsureDemofilesDir(); err == nil {
		if demosDir, dirErr := config.DemofilesDir(); dirErr == nil {
			fmt.Printf("%s Created demofiles directory at %s\n", SuccessStyle.Render("✓"), demosDir)
		}
	}

	return nil
}

func showConfigPath() error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	fmt.Printf("Config directory: %s\n", cfgDir)
	fmt.Printf("Config file: %s/config.cue\n", cfgDir)

	if demosDir, err := config.DemofilesDir(); err == nil {
		fmt.Printf("Demofiles directory: %s\n", demosDir)
	}

	return nil
}

// fileExistsCheck checks if a file exists and is not a directory.
func fileExistsCheck(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}
