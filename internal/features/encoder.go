package features

import (
	"errors"
	"fmt"
)

// ErrUnknownCategory is returned when a label is absent from an encoder's vocabulary.
var ErrUnknownCategory = errors.New("unknown category")

// LabelEncoder maps a fixed, ordered vocabulary of labels to their integer codes.
// The code of a label is its index in the fitted class list.
type LabelEncoder struct {
	name    string
	classes []string
	codes   map[string]int
}

// NewLabelEncoder builds an encoder from the fitted class list. Classes must be
// non-empty and unique; their order defines the codes.
func NewLabelEncoder(name string, classes []string) (*LabelEncoder, error) {
	if len(classes) == 0 {
		return nil, fmt.Errorf("label encoder %s: empty vocabulary", name)
	}
	codes := make(map[string]int, len(classes))
	for i, c := range classes {
		if _, dup := codes[c]; dup {
			return nil, fmt.Errorf("label encoder %s: duplicate class %q", name, c)
		}
		codes[c] = i
	}
	return &LabelEncoder{
		name:    name,
		classes: append([]string(nil), classes...),
		codes:   codes,
	}, nil
}

// Name returns the encoder name (e.g. "city").
func (e *LabelEncoder) Name() string {
	return e.name
}

// Classes returns a copy of the known labels in code order.
func (e *LabelEncoder) Classes() []string {
	return append([]string(nil), e.classes...)
}

// Contains reports whether label is part of the vocabulary.
func (e *LabelEncoder) Contains(label string) bool {
	_, ok := e.codes[label]
	return ok
}

// Encode returns the integer code for label, or an error wrapping ErrUnknownCategory.
func (e *LabelEncoder) Encode(label string) (int, error) {
	code, ok := e.codes[label]
	if !ok {
		return 0, fmt.Errorf("%s %q: %w", e.name, label, ErrUnknownCategory)
	}
	return code, nil
}
