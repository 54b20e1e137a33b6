package bwb

import (
	"bytes"
	"encoding/json"
	"io"
)

// OutlineNode is one chapter of an outline: its official title and the
// official titles that follow it up to the next chapter marker.
type OutlineNode struct {
	Title    string   `json:"title"`
	Children []string `json:"children"`
}

// Outline is an ordered set of chapters keyed by title. Titles compare by
// exact string equality; they are never trimmed or normalized.
//
// When a chapter title repeats, the earlier chapter is replaced by a fresh
// empty node that keeps the earlier chapter's position. Children collected
// under the earlier occurrence are discarded.
//
// An Outline is immutable once returned; accessors hand out copies, so it is
// safe to share between goroutines.
type Outline struct {
	chapters  []*OutlineNode
	positions map[string]int
}

func newOutline() *Outline {
	return &Outline{positions: make(map[string]int)}
}

// openChapter starts (or restarts) the chapter with the given title.
func (outline *Outline) openChapter(title string) {
	freshNode := &OutlineNode{Title: title, Children: []string{}}
	if position, exists := outline.positions[title]; exists {
		outline.chapters[position] = freshNode
		return
	}
	outline.positions[title] = len(outline.chapters)
	outline.chapters = append(outline.chapters, freshNode)
}

func (outline *Outline) appendChild(chapterTitle string, childTitle string) {
	position := outline.positions[chapterTitle]
	node := outline.chapters[position]
	node.Children = append(node.Children, childTitle)
}

// Len returns the number of chapters.
func (outline *Outline) Len() int {
	if outline == nil {
		return 0
	}
	return len(outline.chapters)
}

// Titles returns the chapter titles in document order.
func (outline *Outline) Titles() []string {
	titles := make([]string, 0, outline.Len())
	for _, node := range outline.nodes() {
		titles = append(titles, node.Title)
	}
	return titles
}

// Chapters returns a copy of every chapter in document order.
func (outline *Outline) Chapters() []OutlineNode {
	chapters := make([]OutlineNode, 0, outline.Len())
	for _, node := range outline.nodes() {
		chapters = append(chapters, copyNode(node))
	}
	return chapters
}

// Chapter returns the chapter with exactly the given title.
func (outline *Outline) Chapter(title string) (OutlineNode, bool) {
	if outline == nil {
		return OutlineNode{}, false
	}
	position, exists := outline.positions[title]
	if !exists {
		return OutlineNode{}, false
	}
	return copyNode(outline.chapters[position]), true
}

// ChapterAt returns the chapter at the given position in document order.
func (outline *Outline) ChapterAt(position int) (OutlineNode, bool) {
	if position < 0 || position >= outline.Len() {
		return OutlineNode{}, false
	}
	return copyNode(outline.chapters[position]), true
}

// Equal reports whether both outlines hold the same chapters, in the same
// order, with the same children.
func (outline *Outline) Equal(other *Outline) bool {
	if outline.Len() != other.Len() {
		return false
	}
	for position, node := range outline.nodes() {
		otherNode := other.chapters[position]
		if node.Title != otherNode.Title || len(node.Children) != len(otherNode.Children) {
			return false
		}
		for childIndex, child := range node.Children {
			if otherNode.Children[childIndex] != child {
				return false
			}
		}
	}
	return true
}

// MarshalJSON encodes the outline as a JSON object from chapter title to
// child titles, with keys in document order.
func (outline *Outline) MarshalJSON() ([]byte, error) {
	var buffer bytes.Buffer
	buffer.WriteByte('{')
	for position, node := range outline.nodes() {
		if position > 0 {
			buffer.WriteByte(',')
		}
		key, err := json.Marshal(node.Title)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(node.Children)
		if err != nil {
			return nil, err
		}
		buffer.Write(key)
		buffer.WriteByte(':')
		buffer.Write(value)
	}
	buffer.WriteByte('}')
	return buffer.Bytes(), nil
}

func (outline *Outline) nodes() []*OutlineNode {
	if outline == nil {
		return nil
	}
	return outline.chapters
}

func copyNode(node *OutlineNode) OutlineNode {
	children := make([]string, len(node.Children))
	copy(children, node.Children)
	return OutlineNode{Title: node.Title, Children: children}
}

// ParseOutline walks a content document in document order and builds its
// chapter outline.
//
// A <label> whose leading text is exactly "Hoofdstuk" closes the open
// chapter. The next <titel status="officieel"> then opens a new chapter;
// further official titles become children of the open chapter. An official
// title seen before any chapter marker opens a chapter as well. A chapter
// with an empty title is recorded but left closed, so the next official
// title opens another chapter. Only unqualified element and attribute names
// count; other elements are ignored, and a document without qualifying
// elements yields an empty outline.
//
// A body that is not well-formed XML yields a *MalformedXMLError of kind
// KindDocument.
func ParseOutline(reader io.Reader) (*Outline, error) {
	outline := newOutline()

	var currentChapter *string
	err := walkElements(reader, func(element xmlElement) {
		switch {
		case element.is(labelElement):
			if element.Text == ChapterMarker {
				currentChapter = nil
			}
		case element.is(titleElement):
			if status, _ := element.attr(statusAttr); status != OfficialStatus {
				return
			}
			title := element.Text
			if currentChapter == nil {
				outline.openChapter(title)
				if title != "" {
					currentChapter = &title
				}
				return
			}
			outline.appendChild(*currentChapter, title)
		}
	})
	if err != nil {
		return nil, &MalformedXMLError{Kind: KindDocument, Err: err}
	}

	return outline, nil
}
