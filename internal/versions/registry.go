package versions

import "context"

// Registry looks up the latest published version of a package.
type Registry interface {
	Latest(ctx context.Context, name string) (string, error)
}

// RegistryFunc adapts a function to Registry.
type RegistryFunc func(ctx context.Context, name string) (string, error)

func (f RegistryFunc) Latest(ctx context.Context, name string) (string, error) {
	return f(ctx, name)
}

// Static answers from a fixed table. Unknown names fail with ErrNotFound.
type Static map[string]string

func (s Static) Latest(_ context.Context, name string) (string, error) {
	v, ok := s[name]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}
