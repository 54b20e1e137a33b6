package bwb

import "testing"

func TestManifestLocation(t *testing.T) {
	testCases := []struct {
		baseURL    string
		identifier DocumentIdentifier
		want       string
	}{
		{DefaultBaseURL, "BWBR0044767", DefaultBaseURL + "BWBR0044767/manifest.xml"},
		{"https://example.test/bwb", "d", "https://example.test/bwb/d/manifest.xml"},
		{"https://example.test/bwb/", "d", "https://example.test/bwb/d/manifest.xml"},
	}

	for _, testCase := range testCases {
		if got := ManifestLocation(testCase.baseURL, testCase.identifier); got != testCase.want {
			t.Errorf("ManifestLocation(%q, %q): got %q, want %q", testCase.baseURL, testCase.identifier, got, testCase.want)
		}
	}
}

func TestContentLocation(t *testing.T) {
	testCases := []struct {
		name             string
		manifestLocation string
		latestPointer    string
		want             string
	}{
		{"literal", "https://x/d/manifest.xml", "v2.xml", "https://x/d/v2.xml"},
		{"repository", DefaultBaseURL + "BWBR0044767/manifest.xml", "BWBR0044767_2024-01-01.xml", DefaultBaseURL + "BWBR0044767/BWBR0044767_2024-01-01.xml"},
		{"only trailing token replaced", "https://x/manifest.xml/d/manifest.xml", "v2.xml", "https://x/manifest.xml/d/v2.xml"},
		{"pointer trusted verbatim", "https://x/d/manifest.xml", "../other.xml", "https://x/d/../other.xml"},
		{"other filename", "https://x/d/index.xml", "v2.xml", "https://x/d/v2.xml"},
		{"no path", "manifest", "v2.xml", "v2.xml"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if got := ContentLocation(testCase.manifestLocation, testCase.latestPointer); got != testCase.want {
				t.Errorf("got %q, want %q", got, testCase.want)
			}
		})
	}
}
