package installer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// CheckLayout reports on the product homes and their artifact directories.
// When fix is true, missing artifact directories are created. It returns the
// number of problems left unresolved.
func CheckLayout(w io.Writer, layout Layout, fix bool) int {
	fmt.Fprintln(w, "Layout check:")

	problems := 0
	for _, home := range []struct {
		label, path string
	}{
		{"runtime home", layout.RuntimeHome},
		{"editor home", layout.EditorHome},
	} {
		if home.path == "" {
			fmt.Fprintf(w, "  [SKIP] %s is not configured\n", home.label)
			continue
		}
		if !checkDirExists(w, home.path, false) {
			problems++
			continue
		}
		for _, sub := range []string{JarsDir, BundlesDir} {
			dir := filepath.Join(home.path, sub)
			if !checkDirExists(w, dir, fix) || !checkWritable(w, dir) {
				problems++
			}
		}
	}
	return problems
}

func checkDirExists(w io.Writer, path string, fix bool) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		fmt.Fprintf(w, "  [MISS] %s does not exist\n", path)
		if !fix {
			return false
		}
		if mkErr := os.MkdirAll(path, 0755); mkErr != nil {
			fmt.Fprintf(w, "  [FAIL] Could not create %s: %v\n", path, mkErr)
			return false
		}
		fmt.Fprintf(w, "  [FIX ] Created %s\n", path)
		return true
	}
	if err != nil {
		fmt.Fprintf(w, "  [FAIL] %s: %v\n", path, err)
		return false
	}
	if !info.IsDir() {
		fmt.Fprintf(w, "  [WARN] %s exists but is not a directory\n", path)
		return false
	}
	fmt.Fprintf(w, "  [ OK ] %s exists\n", path)
	return true
}

func checkWritable(w io.Writer, dir string) bool {
	f, err := os.CreateTemp(dir, ".write-check-*")
	if err != nil {
		fmt.Fprintf(w, "  [FAIL] %s is not writable: %v\n", dir, err)
		return false
	}
	f.Close()
	os.Remove(f.Name())
	return true
}
