package text

import (
	"context"

	"github.com/kailas-cloud/textdex/internal/domain/record"
)

// Repository defines the storage contract for string records.
type Repository interface {
	Insert(ctx context.Context, rec record.Record) error
	Get(ctx context.Context, id string) (record.Record, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]record.Record, error)
	Count(ctx context.Context) (int, error)
}
