package resolve

import (
	"os"
	"path/filepath"

	"github.com/aretw0/sessionprune/pkg/domain"
)

// profileName is the fixed file name of the target resource.
const profileName = "profile.bin"

// ProfileResolver locates the target profile file.
type ProfileResolver struct {
	// Override is an explicit profile path from flags. When set it must exist.
	Override string
	// SearchDirs are checked in order when no override is given. Empty means
	// DefaultSearchDirs().
	SearchDirs []string
}

// Resolve returns the absolute path of the profile to edit. Failure is always
// a *domain.NotFoundError; the pipeline surfaces it before any backup exists.
func (r *ProfileResolver) Resolve() (string, error) {
	if r.Override != "" {
		abs, err := filepath.Abs(r.Override)
		if err != nil {
			return "", &domain.NotFoundError{What: "profile", Hint: r.Override}
		}
		if info, err := os.Stat(abs); err != nil || info.IsDir() {
			return "", &domain.NotFoundError{What: "profile", Hint: "no file at " + abs}
		}
		return abs, nil
	}

	dirs := r.SearchDirs
	if len(dirs) == 0 {
		dirs = DefaultSearchDirs()
	}
	for _, dir := range dirs {
		candidate := filepath.Join(dir, profileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return filepath.Abs(candidate)
		}
	}
	return "", &domain.NotFoundError{
		What: "profile",
		Hint: "pass --profile with the path to " + profileName,
	}
}

// DefaultSearchDirs lists the locations the profile is commonly found in:
// the working directory first, then the per-user save locations.
func DefaultSearchDirs() []string {
	dirs := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, "Saved Games"))
	}
	if cfg, err := os.UserConfigDir(); err == nil {
		dirs = append(dirs, cfg)
	}
	return dirs
}
