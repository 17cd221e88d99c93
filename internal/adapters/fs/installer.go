package fs

import (
	"context"
	"errors"
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/recipe/internal/core/domain"
	"go.trai.ch/recipe/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Installer = (*Installer)(nil)

// Installer copies artifacts into the install tree and removes them again.
type Installer struct{}

// NewInstaller creates a new Installer.
func NewInstaller() *Installer {
	return &Installer{}
}

// Install copies src to dest with executable permissions.
// The copy is written next to dest and renamed into place.
func (i *Installer) Install(ctx context.Context, src, dest string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := i.install(src, dest); err != nil {
		return zerr.With(zerr.With(err, "source", src), "path", dest)
	}
	return nil
}

func (i *Installer) install(src, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), domain.InstallDirPerm); err != nil {
		return zerr.Wrap(err, domain.ErrInstallFailed.Error())
	}

	in, err := os.Open(src) //nolint:gosec // Path comes from the build graph
	if err != nil {
		return zerr.Wrap(err, domain.ErrInstallFailed.Error())
	}
	defer in.Close() //nolint:errcheck // Read-only file

	tmp, err := os.CreateTemp(filepath.Dir(dest), "."+filepath.Base(dest)+".*")
	if err != nil {
		return zerr.Wrap(err, domain.ErrInstallFailed.Error())
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck // Already renamed on success

	if _, err := io.Copy(tmp, in); err != nil {
		_ = tmp.Close()
		return zerr.Wrap(err, domain.ErrInstallFailed.Error())
	}
	if err := tmp.Close(); err != nil {
		return zerr.Wrap(err, domain.ErrInstallFailed.Error())
	}
	if err := os.Chmod(tmpName, domain.ExecPerm); err != nil {
		return zerr.Wrap(err, domain.ErrInstallFailed.Error())
	}
	if err := os.Rename(tmpName, dest); err != nil {
		return zerr.Wrap(err, domain.ErrInstallFailed.Error())
	}
	return nil
}

// Uninstall removes path. Removing a file that is not installed succeeds.
func (i *Installer) Uninstall(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, iofs.ErrNotExist) {
		return zerr.With(zerr.Wrap(err, domain.ErrUninstallFailed.Error()), "path", path)
	}
	return nil
}
