// SPDX-License-Identifier: MPL-2.0

package demofile

import (
	"path"
	"regexp"
	"strconv"
	"strings"
)

const (
	// SeverityError indicates a validation failure that prevents a build.
	SeverityError ValidationSeverity = iota
	// SeverityWarning indicates a potential issue that doesn't prevent a build.
	SeverityWarning
)

var (
	octalModeRe  = regexp.MustCompile(`^0[0-7]{3}$`)
	envVarNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

type (
	// ValidationSeverity indicates the severity level of a validation issue.
	ValidationSeverity int

	// ValidationError represents a single issue found during demofile validation.
	ValidationError struct {
		// Field is the field path where the error occurred (e.g., "sets[2].manifest").
		Field string
		// Message is the human-readable error message.
		Message string
		// Severity indicates whether this is an error or warning.
		Severity ValidationSeverity
	}

	// ValidationErrors is a collection of validation issues that implements the
	// error interface. A validation pass collects ALL issues rather than
	// stopping at the first one.
	ValidationErrors []ValidationError
)

// String returns a human-readable representation of the severity level.
func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// Error implements the error interface for ValidationError.
func (e ValidationError) Error() string {
	if e.Field != "" {
		return e.Field + ": " + e.Message
	}
	return e.Message
}

// IsError returns true if this is an error-level validation issue.
func (e ValidationError) IsError() bool {
	return e.Severity == SeverityError
}

// IsWarning returns true if this is a warning-level validation issue.
func (e ValidationError) IsWarning() bool {
	return e.Severity == SeverityWarning
}

// Error implements the error interface by joining all issue messages.
func (errs ValidationErrors) Error() string {
	if len(errs) == 0 {
		return ""
	}
	if len(errs) == 1 {
		return errs[0].Error()
	}

	var b strings.Builder
	b.WriteString("demofile validation failed with ")
	b.WriteString(strconv.Itoa(len(errs)))
	b.WriteString(" issues:\n")
	for i, err := range errs {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("  - ")
		b.WriteString(err.Error())
	}
	return b.String()
}

// HasErrors returns true if there are any error-level validation issues.
func (errs ValidationErrors) HasErrors() bool {
	for _, e := range errs {
		if e.IsError() {
			return true
		}
	}
	return false
}

// Errors returns only the error-level validation issues.
func (errs ValidationErrors) Errors() ValidationErrors {
	var result ValidationErrors
	for _, e := range errs {
		if e.IsError() {
			result = append(result, e)
		}
	}
	return result
}

// Warnings returns only the warning-level validation issues.
func (errs ValidationErrors) Warnings() ValidationErrors {
	var result ValidationErrors
	for _, e := range errs {
		if e.IsWarning() {
			result = append(result, e)
		}
	}
	return result
}

// Validate checks the demofile structure and collects all validation issues.
// Format constraints (non-empty strings, URL prefixes, enum values) are
// enforced by the CUE schema at parse time; this pass covers the rules CUE
// cannot express cheaply: uniqueness, path containment, and cross-field logic.
func (d *Demofile) Validate() ValidationErrors {
	var errs ValidationErrors

	errs = append(errs, d.validateTools()...)
	errs = append(errs, d.validateSets()...)
	errs = append(errs, d.validateDirs()...)
	errs = append(errs, d.validateCopies()...)
	errs = append(errs, d.validateEnv()...)
	errs = append(errs, d.validateEntrypoint()...)

	return errs
}

func (d *Demofile) validateTools() ValidationErrors {
	var errs ValidationErrors
	seen := make(map[string]int, len(d.Tools))
	for i, t := range d.Tools {
		field := "tools[" + strconv.Itoa(i) + "]"
		if err := checkRelativePath(t.Dest); err != "" {
			errs = append(errs, ValidationError{
				Field:    field + ".dest",
				Message:  err,
				Severity: SeverityError,
			})
		}
		if prev, dup := seen[t.Dest]; dup {
			errs = append(errs, ValidationError{
				Field:    field + ".dest",
				Message:  "duplicate tool destination " + strconv.Quote(t.Dest) + " (also declared at tools[" + strconv.Itoa(prev) + "])",
				Severity: SeverityError,
			})
		} else {
			seen[t.Dest] = i
		}
		if t.Mode != "" && !octalModeRe.MatchString(t.Mode) {
			errs = append(errs, ValidationError{
				Field:    field + ".mode",
				Message:  "file mode must be a four-digit octal string such as \"0755\", got " + strconv.Quote(t.Mode),
				Severity: SeverityError,
			})
		}
	}
	return errs
}

func (d *Demofile) validateSets() ValidationErrors {
	var errs ValidationErrors
	seen := make(map[string]int, len(d.Sets))
	for i, s := range d.Sets {
		field := "sets[" + strconv.Itoa(i) + "]"
		if prev, dup := seen[s.Name]; dup {
			errs = append(errs, ValidationError{
				Field:    field + ".name",
				Message:  "duplicate requirement set name " + strconv.Quote(s.Name) + " (also declared at sets[" + strconv.Itoa(prev) + "])",
				Severity: SeverityError,
			})
		} else {
			seen[s.Name] = i
		}
		if err := checkRelativePath(s.Manifest); err != "" {
			errs = append(errs, ValidationError{
				Field:    field + ".manifest",
				Message:  err,
				Severity: SeverityError,
			})
		}
	}
	return errs
}

func (d *Demofile) validateDirs() ValidationErrors {
	var errs ValidationErrors
	for i, dir := range d.Dirs {
		field := "dirs[" + strconv.Itoa(i) + "]"
		if err := checkRelativePath(dir.Path); err != "" {
			errs = append(errs, ValidationError{
				Field:    field + ".path",
				Message:  err,
				Severity: SeverityError,
			})
		}
		// Ownership without a service account is a likely mistake: the
		// referenced account must exist in the base image.
		if dir.Owner != "" && d.ServiceAccount != "" && dir.Owner != d.ServiceAccount {
			errs = append(errs, ValidationError{
				Field:    field + ".owner",
				Message:  "owner " + strconv.Quote(dir.Owner) + " differs from the declared service account " + strconv.Quote(d.ServiceAccount),
				Severity: SeverityWarning,
			})
		}
	}
	return errs
}

func (d *Demofile) validateCopies() ValidationErrors {
	var errs ValidationErrors
	for i, c := range d.Copies {
		field := "copies[" + strconv.Itoa(i) + "]"
		if c.Source != "." {
			if err := checkRelativePath(c.Source); err != "" {
				errs = append(errs, ValidationError{
					Field:    field + ".source",
					Message:  err,
					Severity: SeverityError,
				})
			}
		}
		if c.Dest != "." {
			if err := checkRelativePath(c.Dest); err != "" {
				errs = append(errs, ValidationError{
					Field:    field + ".dest",
					Message:  err,
					Severity: SeverityError,
				})
			}
		}
	}
	return errs
}

func (d *Demofile) validateEnv() ValidationErrors {
	var errs ValidationErrors
	for name := range d.Env {
		if !envVarNameRe.MatchString(name) {
			errs = append(errs, ValidationError{
				Field:    "env",
				Message:  "invalid environment variable name " + strconv.Quote(name),
				Severity: SeverityError,
			})
		}
	}
	return errs
}

func (d *Demofile) validateEntrypoint() ValidationErrors {
	var errs ValidationErrors
	if strings.TrimSpace(d.Entrypoint.Command) == "" {
		errs = append(errs, ValidationError{
			Field:    "entrypoint.command",
			Message:  "entrypoint command must not be empty",
			Severity: SeverityError,
		})
	}
	for i, arg := range d.Entrypoint.Args {
		if strings.ContainsRune(arg, 0) {
			errs = append(errs, ValidationError{
				Field:    "entrypoint.args[" + strconv.Itoa(i) + "]",
				Message:  "argument contains a null byte",
				Severity: SeverityError,
			})
		}
	}
	return errs
}

// checkRelativePath rejects absolute paths and paths that escape the build
// context via "..". Returns an empty string when the path is acceptable.
func checkRelativePath(p string) string {
	if p == "" {
		return "path must not be empty"
	}
	if strings.HasPrefix(p, "/") {
		return "path must be relative to the image workdir, got absolute path " + strconv.Quote(p)
	}
	cleaned := path.Clean(p)
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "path must not escape the build context, got " + strconv.Quote(p)
	}
	if strings.ContainsRune(p, 0) {
		return "path contains a null byte"
	}
	return ""
}
