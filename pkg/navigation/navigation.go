// Package navigation turns an extracted outline into addressable pages for
// a consumer UI. Page keys are derived from positions, never from titles, so
// they stay unique when titles repeat and are identical for equal outlines.
//
// Selection state belongs to the consumer: a Selection is a plain value that
// is passed in and returned, and this package keeps no state of its own.
package navigation

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/coolbeans/bwbnav/pkg/bwb"
)

// ErrInvalidPageKey is returned for a key that does not have the page key
// form, whatever the index.
var ErrInvalidPageKey = errors.New("invalid page key")

// PageKey addresses one page of an Index. Chapter landing pages have the
// form "c<chapter>", child pages "c<chapter>/a<child>", both zero-based.
type PageKey string

// ChapterKey returns the key of the landing page for a chapter.
func ChapterKey(chapterPosition int) PageKey {
	return PageKey("c" + strconv.Itoa(chapterPosition))
}

// ChildKey returns the key of a child page.
func ChildKey(chapterPosition int, childPosition int) PageKey {
	return PageKey("c" + strconv.Itoa(chapterPosition) + "/a" + strconv.Itoa(childPosition))
}

// ParsePageKey splits a key into its chapter and child positions. The child
// position is -1 for a chapter landing page.
func ParsePageKey(key PageKey) (chapterPosition int, childPosition int, err error) {
	chapterPart, childPart, hasChild := strings.Cut(string(key), "/")

	chapterPosition, err = parsePosition(chapterPart, "c")
	if err != nil {
		return 0, 0, fmt.Errorf("%w %q: %w", ErrInvalidPageKey, key, err)
	}
	if !hasChild {
		return chapterPosition, -1, nil
	}

	childPosition, err = parsePosition(childPart, "a")
	if err != nil {
		return 0, 0, fmt.Errorf("%w %q: %w", ErrInvalidPageKey, key, err)
	}
	return chapterPosition, childPosition, nil
}

func parsePosition(part string, prefix string) (int, error) {
	digits, found := strings.CutPrefix(part, prefix)
	if !found || digits == "" {
		return 0, fmt.Errorf("expected %q followed by a position", prefix)
	}
	position, err := strconv.Atoi(digits)
	if err != nil || position < 0 || strconv.Itoa(position) != digits {
		return 0, fmt.Errorf("position %q is not a canonical non-negative integer", digits)
	}
	return position, nil
}

// Page is one navigable entry.
type Page struct {
	Key             PageKey `json:"key"`
	ChapterPosition int     `json:"chapter_position"`
	ChildPosition   int     `json:"child_position"` // -1 for a chapter landing page
	ChapterTitle    string  `json:"chapter_title"`
	Title           string  `json:"title"`
}

// IsChapter reports whether the page is a chapter landing page.
func (page Page) IsChapter() bool {
	return page.ChildPosition < 0
}

// Index lists every page of an outline in reading order: each chapter's
// landing page followed by its child pages.
type Index struct {
	pages     []Page
	positions map[PageKey]int
	chapters  []int // position in pages of each chapter landing page
}

// NewIndex builds the index for outline. A nil or empty outline yields an
// empty index.
func NewIndex(outline *bwb.Outline) *Index {
	index := &Index{positions: make(map[PageKey]int)}

	for chapterPosition, chapter := range outline.Chapters() {
		index.chapters = append(index.chapters, len(index.pages))
		index.add(Page{
			Key:             ChapterKey(chapterPosition),
			ChapterPosition: chapterPosition,
			ChildPosition:   -1,
			ChapterTitle:    chapter.Title,
			Title:           chapter.Title,
		})

		for childPosition, child := range chapter.Children {
			index.add(Page{
				Key:             ChildKey(chapterPosition, childPosition),
				ChapterPosition: chapterPosition,
				ChildPosition:   childPosition,
				ChapterTitle:    chapter.Title,
				Title:           child,
			})
		}
	}

	return index
}

func (index *Index) add(page Page) {
	index.positions[page.Key] = len(index.pages)
	index.pages = append(index.pages, page)
}

// Len returns the number of pages.
func (index *Index) Len() int {
	return len(index.pages)
}

// Pages returns every page in reading order.
func (index *Index) Pages() []Page {
	pages := make([]Page, len(index.pages))
	copy(pages, index.pages)
	return pages
}

// Lookup returns the page with the given key.
func (index *Index) Lookup(key PageKey) (Page, bool) {
	position, found := index.positions[key]
	if !found {
		return Page{}, false
	}
	return index.pages[position], true
}

// ChapterPages returns the landing page and child pages of one chapter.
func (index *Index) ChapterPages(chapterPosition int) []Page {
	if chapterPosition < 0 || chapterPosition >= len(index.chapters) {
		return nil
	}
	start := index.chapters[chapterPosition]
	end := len(index.pages)
	if chapterPosition+1 < len(index.chapters) {
		end = index.chapters[chapterPosition+1]
	}
	pages := make([]Page, end-start)
	copy(pages, index.pages[start:end])
	return pages
}

// First returns the first page, if any.
func (index *Index) First() (Page, bool) {
	if len(index.pages) == 0 {
		return Page{}, false
	}
	return index.pages[0], true
}
