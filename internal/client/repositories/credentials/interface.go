package credentials

import "context"

type Repository interface {
	Save(ctx context.Context, key string, value string) error
	SaveAll(ctx context.Context, values map[string]string) error
	Load(ctx context.Context, key string) (string, bool, error)
	Remove(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
