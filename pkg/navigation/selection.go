package navigation

import (
	"errors"
	"fmt"
)

// ErrUnknownPage is returned when a key does not address a page of the index.
var ErrUnknownPage = errors.New("unknown page")

// Selection is the consumer's currently selected page. The zero value
// selects nothing.
type Selection struct {
	Key PageKey `json:"key,omitempty"`
}

// Select returns a selection of key after checking it exists in index. A
// key that is not of the page key form yields ErrInvalidPageKey, a well-formed
// key outside the index ErrUnknownPage.
func Select(index *Index, key PageKey) (Selection, error) {
	if _, _, err := ParsePageKey(key); err != nil {
		return Selection{}, fmt.Errorf("failed to select: %w", err)
	}
	if _, found := index.Lookup(key); !found {
		return Selection{}, fmt.Errorf("failed to select %q: %w", key, ErrUnknownPage)
	}
	return Selection{Key: key}, nil
}

// Current returns the selected page. An empty or stale selection falls back
// to the first page; found is false only for an empty index.
func (selection Selection) Current(index *Index) (Page, bool) {
	if page, found := index.Lookup(selection.Key); found {
		return page, true
	}
	return index.First()
}

// Next returns the selection moved one page forward in reading order. The
// last page stays selected.
func (selection Selection) Next(index *Index) Selection {
	return selection.step(index, 1)
}

// Prev returns the selection moved one page back in reading order. The
// first page stays selected.
func (selection Selection) Prev(index *Index) Selection {
	return selection.step(index, -1)
}

func (selection Selection) step(index *Index, delta int) Selection {
	if index.Len() == 0 {
		return Selection{}
	}
	position, found := index.positions[selection.Key]
	if !found {
		return Selection{Key: index.pages[0].Key}
	}
	position += delta
	if position < 0 {
		position = 0
	}
	if position >= index.Len() {
		position = index.Len() - 1
	}
	return Selection{Key: index.pages[position].Key}
}
