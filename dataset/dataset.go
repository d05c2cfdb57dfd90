// Package dataset - the annotation source consumed by FOMO evaluation.
package dataset

import (
	"context"

	"github.com/pkg/errors"

	"github.com/nvr-ai/go-fomo/classes"
	"github.com/nvr-ai/go-fomo/common"
)

// Item is one annotated image.
type Item struct {
	ImageHeight int
	ImageWidth  int
	Annotations []common.Annotation
}

// Source yields annotated items by index.
//
// Implementations own decoding, augmentation and any retry logic; callers
// receive a consistent box/label list per item.
type Source interface {
	Len() int
	Item(ctx context.Context, index int) (Item, error)
	Classes() *classes.Set
}

// MemorySource is a Source over items held in memory.
type MemorySource struct {
	items   []Item
	classes *classes.Set
}

// NewMemorySource creates a Source over the given items.
//
// Arguments:
//   - set: The class set the annotation labels refer to.
//   - items: The items, in index order.
//
// Returns:
//   - *MemorySource: The source.
func NewMemorySource(set *classes.Set, items ...Item) *MemorySource {
	return &MemorySource{items: items, classes: set}
}

// Len returns the number of items.
func (s *MemorySource) Len() int {
	return len(s.items)
}

// Item returns the item at index.
func (s *MemorySource) Item(ctx context.Context, index int) (Item, error) {
	if err := ctx.Err(); err != nil {
		return Item{}, err
	}
	if index < 0 || index >= len(s.items) {
		return Item{}, errors.Errorf("item index %d out of range [0, %d)", index, len(s.items))
	}
	return s.items[index], nil
}

// Classes returns the class set.
func (s *MemorySource) Classes() *classes.Set {
	return s.classes
}
