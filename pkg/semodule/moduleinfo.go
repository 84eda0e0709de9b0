// Package semodule describes installable policy modules the way the module
// store sees them. It is independent of the CIL lowering; the store uses it
// to validate module metadata and to compose paths under a store root.
package semodule

import (
	"fmt"
	"path/filepath"
	"regexp"

	"github.com/go-errors/errors"
	"github.com/samber/lo"
)

const (
	// MinPriority and MaxPriority bound the module priority range.
	MinPriority = 1
	MaxPriority = 999

	// BaseName is the reserved name of the base module.
	BaseName = "_base"
)

var (
	nameRegexp    = regexp.MustCompile(`^[A-Za-z]([.]?[A-Za-z0-9_-])*$`)
	langExtRegexp = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)
)

// ModuleInfo describes one installable policy module.
type ModuleInfo struct {
	Priority uint16
	Name     string
	Version  string
	LangExt  string

	// Enabled is -1 while undetermined, otherwise 0 or 1.
	Enabled int
}

// ModuleKey identifies a module within the store.
type ModuleKey struct {
	Name     string
	Priority uint16
}

// NewModuleInfo returns a module info with the enabled state undetermined.
func NewModuleInfo() *ModuleInfo {
	return &ModuleInfo{Enabled: -1}
}

// ValidatePriority checks a module priority.
func ValidatePriority(priority uint16) error {
	if priority < MinPriority || priority > MaxPriority {
		return errors.Errorf("priority %d is invalid", priority)
	}
	return nil
}

// ValidateName checks a module name.
func ValidateName(name string) error {
	if name == BaseName {
		return nil
	}
	if !nameRegexp.MatchString(name) {
		return errors.Errorf("name %s is invalid", name)
	}
	return nil
}

// ValidateVersion checks a module version: non-empty printable ASCII with
// no whitespace.
func ValidateVersion(version string) error {
	if version == "" {
		return errors.New("version is empty")
	}
	for _, r := range version {
		if r <= ' ' || r > '~' {
			return errors.Errorf("version %s is invalid", version)
		}
	}
	return nil
}

// ValidateLangExt checks a module's source-language extension.
func ValidateLangExt(langExt string) error {
	if !langExtRegexp.MatchString(langExt) {
		return errors.Errorf("language extension %s is invalid", langExt)
	}
	return nil
}

// ValidateEnabled checks an enabled state.
func ValidateEnabled(enabled int) error {
	if !lo.Contains([]int{-1, 0, 1}, enabled) {
		return errors.Errorf("enabled status %d is invalid", enabled)
	}
	return nil
}

// Validate checks every field of the module info.
func (m *ModuleInfo) Validate() error {
	if err := ValidatePriority(m.Priority); err != nil {
		return err
	}
	if err := ValidateName(m.Name); err != nil {
		return err
	}
	if err := ValidateVersion(m.Version); err != nil {
		return err
	}
	if err := ValidateLangExt(m.LangExt); err != nil {
		return err
	}
	return ValidateEnabled(m.Enabled)
}

// SetPriority validates and assigns the priority.
func (m *ModuleInfo) SetPriority(priority uint16) error {
	if err := ValidatePriority(priority); err != nil {
		return err
	}
	m.Priority = priority
	return nil
}

// SetName validates and assigns the name.
func (m *ModuleInfo) SetName(name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	m.Name = name
	return nil
}

// SetVersion validates and assigns the version.
func (m *ModuleInfo) SetVersion(version string) error {
	if err := ValidateVersion(version); err != nil {
		return err
	}
	m.Version = version
	return nil
}

// SetLangExt validates and assigns the language extension.
func (m *ModuleInfo) SetLangExt(langExt string) error {
	if err := ValidateLangExt(langExt); err != nil {
		return err
	}
	m.LangExt = langExt
	return nil
}

// SetEnabled validates and assigns the enabled state.
func (m *ModuleInfo) SetEnabled(enabled int) error {
	if err := ValidateEnabled(enabled); err != nil {
		return err
	}
	m.Enabled = enabled
	return nil
}

// Key returns the module's store key.
func (m *ModuleInfo) Key() ModuleKey {
	return ModuleKey{Name: m.Name, Priority: m.Priority}
}

// PathType selects one of the store paths of a module.
type PathType int

const (
	PathPriority PathType = iota
	PathName
	PathHLL
	PathCIL
	PathLangExt
	PathVersion
	PathDisabled
)

// pathFiles names the plain files below the module directory. An explicit
// map, so each path type states its filename instead of relying on
// fall-through ordering.
var pathFiles = map[PathType]string{
	PathCIL:     "cil",
	PathLangExt: "lang_ext",
	PathVersion: "version",
}

// Path composes a store path for the module under the given store root,
// validating the fields the path depends on.
func (m *ModuleInfo) Path(root string, kind PathType) (string, error) {
	switch kind {
	case PathPriority:
		if err := ValidatePriority(m.Priority); err != nil {
			return "", err
		}
		return filepath.Join(root, priorityDir(m.Priority)), nil

	case PathName:
		if err := ValidatePriority(m.Priority); err != nil {
			return "", err
		}
		if err := ValidateName(m.Name); err != nil {
			return "", err
		}
		return filepath.Join(root, priorityDir(m.Priority), m.Name), nil

	case PathHLL:
		if err := ValidateLangExt(m.LangExt); err != nil {
			return "", err
		}
		if err := ValidatePriority(m.Priority); err != nil {
			return "", err
		}
		if err := ValidateName(m.Name); err != nil {
			return "", err
		}
		return filepath.Join(root, priorityDir(m.Priority), m.Name, m.Name+"."+m.LangExt), nil

	case PathCIL, PathLangExt, PathVersion:
		if err := ValidatePriority(m.Priority); err != nil {
			return "", err
		}
		if err := ValidateName(m.Name); err != nil {
			return "", err
		}
		return filepath.Join(root, priorityDir(m.Priority), m.Name, pathFiles[kind]), nil

	case PathDisabled:
		if err := ValidateName(m.Name); err != nil {
			return "", err
		}
		return filepath.Join(root, "disabled", m.Name), nil
	}

	return "", errors.Errorf("invalid module path type %d", kind)
}

func priorityDir(priority uint16) string {
	return fmt.Sprintf("%03d", priority)
}
