// Package resolve locates the two externals a run depends on: the converter
// tool and the target profile. The pipeline treats both as collaborators and
// only sees their success or a NotFoundError; acquiring a missing converter
// (download or build) is out of scope here and delegated to the installer
// scripts shipped alongside the binary.
package resolve

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/aretw0/sessionprune/pkg/adapters/converter"
	"github.com/aretw0/sessionprune/pkg/domain"
)

const (
	// toolBinary is the converter's name when it ships as a native executable.
	toolBinary = "resconvert"
	// toolAssembly is the converter's name when it ships as a .NET assembly,
	// which needs the dotnet launcher.
	toolAssembly = "ResConvert.dll"
	// launcherBinary starts managed-runtime artifacts.
	launcherBinary = "dotnet"
)

// ToolResolver locates the converter once per run.
type ToolResolver struct {
	// Override is an explicit tool path from flags or config. When set, no
	// searching happens: the path must exist.
	Override string
	// InstallDir is where the installer places managed artifacts.
	// Empty means the per-user default.
	InstallDir string
	// AutoInstall controls only the remedy hint on failure; resolution never
	// installs anything itself.
	AutoInstall bool
}

// Resolve returns the converter descriptor, deciding once whether a launcher
// is required. Failure is always a *domain.NotFoundError.
func (r *ToolResolver) Resolve() (converter.Tool, error) {
	if r.Override != "" {
		if _, err := os.Stat(r.Override); err != nil {
			return converter.Tool{}, &domain.NotFoundError{
				What: "converter tool",
				Hint: "no file at " + r.Override,
			}
		}
		return describe(r.Override), nil
	}

	installDir := r.InstallDir
	if installDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			installDir = filepath.Join(home, ".sessionprune", "tools")
		}
	}
	if installDir != "" {
		for _, name := range []string{toolAssembly, toolBinary} {
			candidate := filepath.Join(installDir, name)
			if _, err := os.Stat(candidate); err == nil {
				return describe(candidate), nil
			}
		}
	}

	if path, err := exec.LookPath(toolBinary); err == nil {
		return describe(path), nil
	}

	hint := "pass --tool with the converter path"
	if r.AutoInstall {
		hint = "run the bundled install script, or pass --tool with the converter path"
	}
	return converter.Tool{}, &domain.NotFoundError{What: "converter tool", Hint: hint}
}

// describe classifies the artifact. Managed assemblies cannot run directly and
// get the launcher attached; whether the launcher actually exists is checked
// at invocation time.
func describe(path string) converter.Tool {
	if strings.EqualFold(filepath.Ext(path), ".dll") {
		return converter.Tool{Path: path, Launcher: launcherBinary}
	}
	return converter.Tool{Path: path}
}
