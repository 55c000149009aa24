// Package record defines the stored string aggregate.
package record

import (
	"fmt"
	"time"

	"github.com/kailas-cloud/textdex/internal/domain/analysis"
	"github.com/kailas-cloud/textdex/internal/domain/identity"
)

// MaxValueSize is the maximum raw value size in bytes.
const MaxValueSize = 163840 // 160KB

// Record is a stored string with its computed properties (immutable value object).
// The id always equals identity.Digest(value), so the store behaves as a set
// keyed by content.
type Record struct {
	id         string
	value      string
	properties analysis.Properties
	createdAt  time.Time
}

// New validates and creates a Record. The digest is derived from the exact raw
// bytes; no normalization is applied to the stored value.
func New(value string, props analysis.Properties, createdAt time.Time) (Record, error) {
	if len(value) > MaxValueSize {
		return Record{}, fmt.Errorf("value too large (max %d bytes)", MaxValueSize)
	}
	return Record{
		id:         identity.Digest(value),
		value:      value,
		properties: props,
		createdAt:  createdAt.UTC(),
	}, nil
}

// Reconstruct creates a Record without validation (storage hydration).
func Reconstruct(id, value string, props analysis.Properties, createdAt time.Time) Record {
	return Record{id: id, value: value, properties: props, createdAt: createdAt}
}

// ID returns the content digest identifier.
func (r *Record) ID() string { return r.id }

// Value returns the original raw text.
func (r *Record) Value() string { return r.value }

// Properties returns the computed analysis properties.
func (r *Record) Properties() analysis.Properties { return r.properties }

// CreatedAt returns the insertion timestamp.
func (r *Record) CreatedAt() time.Time { return r.createdAt }
