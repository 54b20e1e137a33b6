package bwb

import (
	"io"
)

// ParseManifest reads a manifest document and returns the value of the
// _latestItem attribute on its root element.
//
// A body that is not well-formed XML yields a *MalformedXMLError of kind
// KindManifest. A well-formed manifest without a non-empty _latestItem
// yields ErrMissingLatestPointer.
func ParseManifest(reader io.Reader) (string, error) {
	var latestPointer string

	err := walkElements(reader, func(element xmlElement) {
		if element.Depth != 0 {
			return
		}
		latestPointer, _ = element.attr(LatestItemAttr)
	})
	if err != nil {
		return "", &MalformedXMLError{Kind: KindManifest, Err: err}
	}

	if latestPointer == "" {
		return "", ErrMissingLatestPointer
	}
	return latestPointer, nil
}
