package bwb

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
)

// xmlElement is one element as seen by walkElements. Text holds the
// element's leading character data: everything before its first child
// element, verbatim.
type xmlElement struct {
	Name  xml.Name
	Attr  []xml.Attr
	Text  string
	Depth int
}

// is reports whether the element is the unqualified element name. Elements
// in a namespace, default or prefixed, never match.
func (element xmlElement) is(name string) bool {
	return element.Name.Space == "" && element.Name.Local == name
}

// attr returns the value of the unqualified attribute with the given name.
func (element xmlElement) attr(name string) (string, bool) {
	for _, attribute := range element.Attr {
		if attribute.Name.Space == "" && attribute.Name.Local == name {
			return attribute.Value, true
		}
	}
	return "", false
}

type openElement struct {
	element xmlElement
	text    strings.Builder
	visited bool
}

// flush hands the element to visit once its leading text is complete.
func (open *openElement) flush(visit func(xmlElement)) {
	if open.visited {
		return
	}
	open.visited = true
	open.element.Text = open.text.String()
	visit(open.element)
}

// walkElements streams reader and calls visit for every element in document
// order (depth-first, pre-order). The whole input is consumed, so any
// well-formedness error surfaces even after the last interesting element.
func walkElements(reader io.Reader, visit func(xmlElement)) error {
	decoder := xml.NewDecoder(reader)
	decoder.CharsetReader = charset.NewReaderLabel

	var stack []*openElement
	rootSeen := false

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		switch typed := token.(type) {
		case xml.StartElement:
			if len(stack) == 0 {
				if rootSeen {
					return syntaxError(decoder, "junk after document element")
				}
				rootSeen = true
			} else {
				stack[len(stack)-1].flush(visit)
			}
			copied := typed.Copy()
			stack = append(stack, &openElement{
				element: xmlElement{Name: copied.Name, Attr: copied.Attr, Depth: len(stack)},
			})

		case xml.CharData:
			if len(stack) == 0 {
				if len(bytes.TrimSpace(typed)) > 0 {
					return syntaxError(decoder, "text outside document element")
				}
				continue
			}
			if top := stack[len(stack)-1]; !top.visited {
				top.text.Write(typed)
			}

		case xml.EndElement:
			stack[len(stack)-1].flush(visit)
			stack = stack[:len(stack)-1]
		}
	}

	if len(stack) > 0 {
		return syntaxError(decoder, "unexpected EOF")
	}
	if !rootSeen {
		return syntaxError(decoder, "no element found")
	}
	return nil
}

func syntaxError(decoder *xml.Decoder, message string) error {
	line, _ := decoder.InputPos()
	return &xml.SyntaxError{Msg: message, Line: line}
}
