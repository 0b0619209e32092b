package preflight

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"comicgen/internal/config"
	"comicgen/internal/history"
	"comicgen/internal/render"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	return checkDir(name, path, unix.R_OK|unix.W_OK|unix.X_OK, "read/write ok")
}

// CheckReadableDir verifies that the directory exists and can be listed.
func CheckReadableDir(name, path string) Result {
	return checkDir(name, path, unix.R_OK|unix.X_OK, "readable")
}

func checkDir(name, path string, mode uint32, okDetail string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, mode); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s)", path, okDetail)}
}

// CheckAnnotationFile verifies that the annotation file exists and can be
// read and appended to.
func CheckAnnotationFile(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist; create an empty file)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/append ok)", path)}
}

// CheckOutputLocation passes when the directory is writable or, if it does not
// exist yet, when its parent is writable so a build can create it.
func CheckOutputLocation(name, path string) Result {
	if _, err := os.Stat(path); err == nil {
		return CheckDirectoryAccess(name, path)
	} else if !os.IsNotExist(err) {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	parent := CheckDirectoryAccess(name, filepath.Dir(path))
	if !parent.Passed {
		return parent
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (created on first build)", path)}
}

// CheckTemplates verifies that every configured template loads.
func CheckTemplates(name string, cfg *config.Config) Result {
	tmpl, err := render.LoadTemplatesFromConfig(cfg)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (4 templates ok)", tmpl.Source())}
}

// CheckHistory verifies that the history database opens and can be queried.
func CheckHistory(ctx context.Context, name, path string) Result {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		parent := CheckOutputLocation(name, filepath.Dir(path))
		if !parent.Passed {
			return parent
		}
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (created on first build)", path)}
	}
	store, err := history.Open(path)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	defer store.Close()
	runs, err := store.List(ctx, 1)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	if len(runs) == 0 {
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (no builds yet)", path)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (last build %s)", path, runs[0].StartedAt.Local().Format("2006-01-02 15:04"))}
}
