// Package bwb provides a connector to the Dutch government publication
// repository for the Basiswettenbestand (BWB): it resolves a regulation
// identifier to its latest published XML through the regulation's manifest,
// and extracts a chapter outline from that XML for navigation.
package bwb

import (
	"strings"
)

// DefaultBaseURL is the root of the BWB repository. Manifests live at
// {DefaultBaseURL}{identifier}/manifest.xml.
const DefaultBaseURL = "https://repository.officiele-overheidspublicaties.nl/bwb/"

// ManifestFileName is the conventional filename of a regulation manifest.
const ManifestFileName = "manifest.xml"

// Markup conventions of the manifest and content documents.
const (
	// LatestItemAttr is the manifest root attribute naming the current version.
	LatestItemAttr = "_latestItem"

	// ChapterMarker is the text of a <label> element that starts a new chapter.
	ChapterMarker = "Hoofdstuk"

	// OfficialStatus is the status attribute value of a canonical <titel>.
	OfficialStatus = "officieel"

	labelElement = "label"
	titleElement = "titel"
	statusAttr   = "status"
)

// DocumentIdentifier is a stable BWB registry code such as "BWBR0044767".
type DocumentIdentifier string

// Resolution records how an identifier was resolved to its current version.
type Resolution struct {
	Identifier       DocumentIdentifier `json:"identifier"`
	ManifestLocation string             `json:"manifest_location"`
	ContentLocation  string             `json:"content_location"`
}

// Document is a resolved regulation together with its extracted outline.
type Document struct {
	Resolution
	Outline *Outline `json:"outline"`
}

// ManifestLocation builds the manifest URL for an identifier below baseURL.
// A missing trailing slash on baseURL is tolerated.
func ManifestLocation(baseURL string, identifier DocumentIdentifier) string {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return baseURL + string(identifier) + "/" + ManifestFileName
}

// ContentLocation derives the location of the latest version from the
// manifest location by replacing its trailing manifest filename with the
// pointer. The pointer is trusted as a sibling resource name. When the
// location does not end in the manifest filename, the final path segment is
// replaced instead.
func ContentLocation(manifestLocation string, latestPointer string) string {
	if strings.HasSuffix(manifestLocation, ManifestFileName) {
		return strings.TrimSuffix(manifestLocation, ManifestFileName) + latestPointer
	}

	lastSlash := strings.LastIndex(manifestLocation, "/")
	if lastSlash < 0 {
		return latestPointer
	}
	return manifestLocation[:lastSlash+1] + latestPointer
}
