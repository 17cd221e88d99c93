package ports

import "context"

// Installer places built artifacts into, and removes them from, the install tree.
//
//go:generate go run go.uber.org/mock/mockgen -source=installer.go -destination=mocks/mock_installer.go -package=mocks
type Installer interface {
	// Install copies src to dest, creating parent directories as needed.
	Install(ctx context.Context, src, dest string) error

	// Uninstall removes path. A path that does not exist is not an error.
	Uninstall(ctx context.Context, path string) error
}
