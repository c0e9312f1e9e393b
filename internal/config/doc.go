// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/vcdemo/config.cue (or XDG equivalent on Linux,
// ~/Library/Application Support/vcdemo/config.cue on macOS, %APPDATA%\vcdemo\config.cue
// on Windows). The package provides type-safe configuration access and supports container
// engine selection, tunnel discovery, agent defaults, build behavior, and UI settings.
//
// Configuration validation is performed against a CUE schema (config_schema.cue) to ensure
// type safety and provide clear error messages for invalid configurations.
package config
