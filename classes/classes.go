// Package classes - maps grid class labels to human-readable category names.
package classes

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// Background is the label reserved for cells without an object.
const Background = 0

// ErrInvalidCategories is returned when a category table cannot be mapped onto
// contiguous labels 1..C.
var ErrInvalidCategories = errors.New("invalid category table")

// Category is one entry of a COCO style category table.
type Category struct {
	// The category id used by annotations.
	ID int `json:"id" yaml:"id"`
	// The human-readable label.
	Name string `json:"name" yaml:"name"`
}

// Set is the ordered list of object classes of a dataset.
//
// Label i (1-based) maps to Names()[i-1]. Label 0 is always the background.
type Set struct {
	names     []string
	nameToIdx map[string]int
}

// NewSet builds a class set from a category table.
//
// Arguments:
//   - categories: The categories, in any order.
//   - skipBackground: Drop category 0. Roboflow exports use id 0 for a super-category.
//
// Returns:
//   - *Set: The class set.
//   - error: ErrInvalidCategories if the ids are not exactly 1..C or a name repeats.
func NewSet(categories []Category, skipBackground bool) (*Set, error) {
	sorted := make([]Category, 0, len(categories))
	for _, c := range categories {
		if skipBackground && c.ID == Background {
			continue
		}
		sorted = append(sorted, c)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	s := &Set{
		names:     make([]string, 0, len(sorted)),
		nameToIdx: make(map[string]int, len(sorted)),
	}
	for i, c := range sorted {
		if c.ID == Background {
			return nil, errors.Wrapf(ErrInvalidCategories, "category %q uses the background id 0", c.Name)
		}
		if c.ID != i+1 {
			return nil, errors.Wrapf(ErrInvalidCategories, "category %q has id %d, want %d", c.Name, c.ID, i+1)
		}
		if _, dup := s.nameToIdx[c.Name]; dup {
			return nil, errors.Wrapf(ErrInvalidCategories, "duplicate category name %q", c.Name)
		}
		s.names = append(s.names, c.Name)
		s.nameToIdx[c.Name] = c.ID
	}
	return s, nil
}

// FromNames builds a class set where names[i] gets label i+1.
func FromNames(names ...string) (*Set, error) {
	categories := make([]Category, len(names))
	for i, n := range names {
		categories[i] = Category{ID: i + 1, Name: n}
	}
	return NewSet(categories, false)
}

// DetectRoboflow reports whether a COCO info block was written by a Roboflow export.
func DetectRoboflow(info map[string]any) bool {
	for _, v := range info {
		if s, ok := v.(string); ok && strings.Contains(s, "roboflow") {
			return true
		}
	}
	return false
}

// NumClasses returns C, the number of object classes (background excluded).
func (s *Set) NumClasses() int {
	return len(s.names)
}

// Names returns the class names ordered by label.
func (s *Set) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Contains reports whether label is an object label of this set.
func (s *Set) Contains(label int) bool {
	return label >= 1 && label <= len(s.names)
}

// Name returns the class name for a label. Label 0 is reported as "background".
func (s *Set) Name(label int) (string, error) {
	if label == Background {
		return "background", nil
	}
	if !s.Contains(label) {
		return "", errors.Errorf("label %d out of range [1, %d]", label, len(s.names))
	}
	return s.names[label-1], nil
}

// Label returns the label for a class name.
func (s *Set) Label(name string) (int, error) {
	idx, ok := s.nameToIdx[name]
	if !ok {
		return -1, errors.Errorf("class %q not found", name)
	}
	return idx, nil
}
