// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"

	"vcdemo-cli/pkg/types"
)

const (
	// ContainerEnginePodman uses Podman as the container runtime.
	ContainerEnginePodman ContainerEngine = "podman"
	// ContainerEngineDocker uses Docker as the container runtime.
	ContainerEngineDocker ContainerEngine = "docker"

	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// WalletTypeAskar is the Aries Askar wallet backend.
	WalletTypeAskar WalletType = "askar"
	// WalletTypeAskarAnonCreds is the Askar backend with AnonCreds support.
	WalletTypeAskarAnonCreds WalletType = "askar-anoncreds"
)

var (
	// ErrInvalidContainerEngine is returned when a ContainerEngine value is not recognized.
	ErrInvalidContainerEngine = errors.New("invalid container engine")
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidWalletType is returned when a WalletType value is not recognized.
	ErrInvalidWalletType = errors.New("invalid wallet type")
	// ErrInvalidDemofilePath is returned when a DemofilePath value is whitespace-only.
	ErrInvalidDemofilePath = errors.New("invalid demofile path")
	// ErrInvalidCacheDirPath is returned when a CacheDirPath value is whitespace-only.
	ErrInvalidCacheDirPath = errors.New("invalid cache dir path")
	// ErrInvalidAPIURL is returned when a tunnel API URL is whitespace-only.
	ErrInvalidAPIURL = errors.New("invalid tunnel API URL")
	// ErrInvalidUIConfig is the sentinel error wrapped by InvalidUIConfigError.
	ErrInvalidUIConfig = errors.New("invalid UI config")
	// ErrInvalidAgentConfig is the sentinel error wrapped by InvalidAgentConfigError.
	ErrInvalidAgentConfig = errors.New("invalid agent config")
	// ErrInvalidTunnelConfig is the sentinel error wrapped by InvalidTunnelConfigError.
	ErrInvalidTunnelConfig = errors.New("invalid tunnel config")
	// ErrInvalidBuildConfig is the sentinel error wrapped by InvalidBuildConfigError.
	ErrInvalidBuildConfig = errors.New("invalid build config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ContainerEngine specifies which container runtime to use.
	ContainerEngine string

	// InvalidContainerEngineError is returned when a ContainerEngine value is not recognized.
	// It wraps ErrInvalidContainerEngine for errors.Is() compatibility.
	InvalidContainerEngineError struct {
		Value ContainerEngine
	}

	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// WalletType specifies the agent wallet backend.
	WalletType string

	// InvalidWalletTypeError is returned when a WalletType value is not recognized.
	// It wraps ErrInvalidWalletType for errors.Is() compatibility.
	InvalidWalletTypeError struct {
		Value WalletType
	}

	// DemofilePath represents a filesystem path to a demofile.
	// The zero value ("") is valid and means "search the default locations".
	// Non-zero values must not be whitespace-only.
	DemofilePath string

	// InvalidDemofilePathError is returned when a DemofilePath value is
	// non-empty but whitespace-only.
	InvalidDemofilePathError struct {
		Value DemofilePath
	}

	// CacheDirPath represents a filesystem path to a cache directory.
	// The zero value ("") is valid and means "use default cache directory".
	// Non-zero values must not be whitespace-only.
	CacheDirPath string

	// InvalidCacheDirPathError is returned when a CacheDirPath value is
	// non-empty but whitespace-only.
	InvalidCacheDirPathError struct {
		Value CacheDirPath
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// InvalidUIConfigError is returned when a UIConfig has invalid fields.
	// It wraps ErrInvalidUIConfig for errors.Is() compatibility and collects
	// field-level validation errors.
	InvalidUIConfigError struct {
		FieldErrors []error
	}

	// InvalidAgentConfigError is returned when an AgentConfig has invalid fields.
	// It wraps ErrInvalidAgentConfig for errors.Is() compatibility and collects
	// field-level validation errors.
	InvalidAgentConfigError struct {
		FieldErrors []error
	}

	// InvalidTunnelConfigError is returned when a TunnelConfig has invalid fields.
	// It wraps ErrInvalidTunnelConfig for errors.Is() compatibility and collects
	// field-level validation errors.
	InvalidTunnelConfigError struct {
		FieldErrors []error
	}

	// InvalidBuildConfigError is returned when a BuildConfig has invalid fields.
	// It wraps ErrInvalidBuildConfig for errors.Is() compatibility and collects
	// field-level validation errors.
	InvalidBuildConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// ContainerEngine specifies whether to use "podman" or "docker"
		ContainerEngine ContainerEngine `json:"container_engine" mapstructure:"container_engine"`
		// Demofile optionally overrides the demofile search with an explicit path.
		Demofile DemofilePath `json:"demofile" mapstructure:"demofile"`
		// Tunnel configures how the public endpoint is discovered
		Tunnel TunnelConfig `json:"tunnel" mapstructure:"tunnel"`
		// Agent sets defaults for spawned agents
		Agent AgentConfig `json:"agent" mapstructure:"agent"`
		// Build configures image build behavior
		Build BuildConfig `json:"build" mapstructure:"build"`
		// UI configures the user interface
		UI UIConfig `json:"ui" mapstructure:"ui"`
	}

	// TunnelConfig configures public endpoint discovery via the ngrok local API.
	TunnelConfig struct {
		// APIURL is the base URL of the ngrok local API (default: http://ngrok:4040).
		APIURL string `json:"api_url" mapstructure:"api_url"`
		// TimeoutSeconds bounds how long to wait for a tunnel to come up.
		TimeoutSeconds int `json:"timeout_seconds" mapstructure:"timeout_seconds"`
	}

	// AgentConfig sets defaults applied to every spawned agent.
	AgentConfig struct {
		// BasePort is the inbound transport port; admin is base+1, webhooks base+2.
		BasePort types.ListenPort `json:"base_port" mapstructure:"base_port"`
		// LabelPrefix is prepended to agent labels (e.g. "vcdemo.").
		LabelPrefix string `json:"label_prefix" mapstructure:"label_prefix"`
		// WalletType selects the wallet backend ("askar" or "askar-anoncreds").
		WalletType WalletType `json:"wallet_type" mapstructure:"wallet_type"`
		// GenesisURL points at the ledger genesis transactions (optional).
		GenesisURL string `json:"genesis_url" mapstructure:"genesis_url"`
		// NoAuto disables the agent's automatic accept/store behavior.
		NoAuto bool `json:"no_auto" mapstructure:"no_auto"`
	}

	// BuildConfig configures image build behavior.
	BuildConfig struct {
		// CacheDir specifies where to stage build contexts and cache metadata
		CacheDir CacheDirPath `json:"cache_dir" mapstructure:"cache_dir"`
		// ForceRebuild skips the content-hash cache and always rebuilds.
		ForceRebuild bool `json:"force_rebuild" mapstructure:"force_rebuild"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// ColorScheme sets the color scheme
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		// Verbose enables verbose output
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}
)

// IsValid returns whether the UIConfig has valid fields.
// It delegates to ColorScheme.IsValid(); bool fields need no validation.
func (c UIConfig) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidUIConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidUIConfigError.
func (e *InvalidUIConfigError) Error() string {
	return fmt.Sprintf("invalid UI config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidUIConfig for errors.Is() compatibility.
func (e *InvalidUIConfigError) Unwrap() error { return ErrInvalidUIConfig }

// IsValid returns whether the AgentConfig has valid fields.
// It delegates to BasePort.Validate() and WalletType.IsValid().
// String fields (LabelPrefix, GenesisURL) and bool fields need no validation.
func (c AgentConfig) IsValid() (bool, []error) {
	var errs []error
	if err := c.BasePort.Validate(); err != nil {
		errs = append(errs, err)
	}
	if valid, fieldErrs := c.WalletType.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidAgentConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidAgentConfigError.
func (e *InvalidAgentConfigError) Error() string {
	return fmt.Sprintf("invalid agent config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidAgentConfig for errors.Is() compatibility.
func (e *InvalidAgentConfigError) Unwrap() error { return ErrInvalidAgentConfig }

// IsValid returns whether the TunnelConfig has valid fields.
// APIURL must not be whitespace-only; TimeoutSeconds needs no validation
// (non-positive values fall back to the default at the point of use).
func (c TunnelConfig) IsValid() (bool, []error) {
	var errs []error
	if c.APIURL != "" && strings.TrimSpace(c.APIURL) == "" {
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidAPIURL, c.APIURL))
	}
	if len(errs) > 0 {
		return false, []error{&InvalidTunnelConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidTunnelConfigError.
func (e *InvalidTunnelConfigError) Error() string {
	return fmt.Sprintf("invalid tunnel config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidTunnelConfig for errors.Is() compatibility.
func (e *InvalidTunnelConfigError) Unwrap() error { return ErrInvalidTunnelConfig }

// IsValid returns whether the BuildConfig has valid fields.
// It delegates to CacheDir.IsValid(); ForceRebuild needs no validation.
func (c BuildConfig) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.CacheDir.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidBuildConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidBuildConfigError.
func (e *InvalidBuildConfigError) Error() string {
	return fmt.Sprintf("invalid build config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidBuildConfig for errors.Is() compatibility.
func (e *InvalidBuildConfigError) Unwrap() error { return ErrInvalidBuildConfig }

// IsValid returns whether the Config has valid fields.
// It delegates to ContainerEngine.IsValid(), Demofile.IsValid(),
// Tunnel.IsValid(), Agent.IsValid(), Build.IsValid(), and UI.IsValid().
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.ContainerEngine.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Demofile.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Tunnel.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Agent.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Build.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.UI.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// String returns the string representation of the DemofilePath.
func (p DemofilePath) String() string { return string(p) }

// IsValid returns whether the DemofilePath is valid.
// The zero value ("") is valid (means "search the default locations").
// Non-zero values must not be whitespace-only.
func (p DemofilePath) IsValid() (bool, []error) {
	if p == "" {
		return true, nil
	}
	if strings.TrimSpace(string(p)) == "" {
		return false, []error{&InvalidDemofilePathError{Value: p}}
	}
	return true, nil
}

// Error implements the error interface for InvalidDemofilePathError.
func (e *InvalidDemofilePathError) Error() string {
	return fmt.Sprintf("invalid demofile path %q: non-empty value must not be whitespace-only", e.Value)
}

// Unwrap returns ErrInvalidDemofilePath for errors.Is() compatibility.
func (e *InvalidDemofilePathError) Unwrap() error { return ErrInvalidDemofilePath }

// String returns the string representation of the CacheDirPath.
func (p CacheDirPath) String() string { return string(p) }

// IsValid returns whether the CacheDirPath is valid.
// The zero value ("") is valid (means "use default cache directory").
// Non-zero values must not be whitespace-only.
func (p CacheDirPath) IsValid() (bool, []error) {
	if p == "" {
		return true, nil
	}
	if strings.TrimSpace(string(p)) == "" {
		return false, []error{&InvalidCacheDirPathError{Value: p}}
	}
	return true, nil
}

// Error implements the error interface for InvalidCacheDirPathError.
func (e *InvalidCacheDirPathError) Error() string {
	return fmt.Sprintf("invalid cache dir path %q: non-empty value must not be whitespace-only", e.Value)
}

// Unwrap returns ErrInvalidCacheDirPath for errors.Is() compatibility.
func (e *InvalidCacheDirPathError) Unwrap() error { return ErrInvalidCacheDirPath }

// Error implements the error interface for InvalidContainerEngineError.
func (e *InvalidContainerEngineError) Error() string {
	return fmt.Sprintf("invalid container engine %q (valid: podman, docker)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidContainerEngineError) Unwrap() error {
	return ErrInvalidContainerEngine
}

// String returns the string representation of the ContainerEngine.
func (ce ContainerEngine) String() string { return string(ce) }

// IsValid returns whether the ContainerEngine is one of the defined engine types,
// and a list of validation errors if it is not.
func (ce ContainerEngine) IsValid() (bool, []error) {
	switch ce {
	case ContainerEnginePodman, ContainerEngineDocker:
		return true, nil
	default:
		return false, []error{&InvalidContainerEngineError{Value: ce}}
	}
}

// Error implements the error interface for InvalidWalletTypeError.
func (e *InvalidWalletTypeError) Error() string {
	return fmt.Sprintf("invalid wallet type %q (valid: askar, askar-anoncreds)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidWalletTypeError) Unwrap() error {
	return ErrInvalidWalletType
}

// String returns the string representation of the WalletType.
func (w WalletType) String() string { return string(w) }

// IsValid returns whether the WalletType is one of the defined wallet backends,
// and a list of validation errors if it is not.
func (w WalletType) IsValid() (bool, []error) {
	switch w {
	case WalletTypeAskar, WalletTypeAskarAnonCreds:
		return true, nil
	default:
		return false, []error{&InvalidWalletTypeError{Value: w}}
	}
}

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error {
	return ErrInvalidColorScheme
}

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined color schemes,
// and a list of validation errors if it is not.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		ContainerEngine: ContainerEnginePodman,
		Demofile:        "",
		Tunnel: TunnelConfig{
			APIURL:         "http://ngrok:4040",
			TimeoutSeconds: 60,
		},
		Agent: AgentConfig{
			BasePort:    8060,
			LabelPrefix: "",
			WalletType:  WalletTypeAskarAnonCreds,
			GenesisURL:  "",
			NoAuto:      false,
		},
		Build: BuildConfig{
			CacheDir:     "", // Will use default cache dir if empty
			ForceRebuild: false,
		},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			Verbose:     false,
		},
	}
}
