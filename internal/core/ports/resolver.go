package ports

// InputResolver defines the interface for resolving source patterns.
//
//go:generate go run go.uber.org/mock/mockgen -source=resolver.go -destination=mocks/mock_resolver.go -package=mocks
type InputResolver interface {
	// ResolveInputs resolves the given patterns, relative to root, to concrete file paths.
	ResolveInputs(inputs []string, root string) ([]string, error)
}
