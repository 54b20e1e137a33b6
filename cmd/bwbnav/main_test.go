package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/coolbeans/bwbnav/pkg/bwb"
	"github.com/coolbeans/bwbnav/pkg/navigation"
)

const testContentXML = `<?xml version="1.0" encoding="UTF-8"?>
<toestand bwb-id="BWBR0044767">
  <wetgeving>
    <hoofdstuk>
      <kop><label>Hoofdstuk</label><nr>1</nr><titel status="officieel">Algemene bepalingen</titel></kop>
      <artikel><kop><label>Artikel</label><nr>1</nr><titel status="officieel">Begripsbepalingen</titel></kop></artikel>
    </hoofdstuk>
    <hoofdstuk>
      <kop><label>Hoofdstuk</label><nr>2</nr><titel status="officieel">Integriteitsbeleid</titel></kop>
      <artikel><kop><label>Artikel</label><nr>2</nr><titel status="officieel">Beleid</titel></kop></artikel>
      <artikel><kop><label>Artikel</label><nr>3</nr><titel status="officieel">Toezicht</titel></kop></artikel>
    </hoofdstuk>
  </wetgeving>
</toestand>`

func newTestRepository(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/bwb/BWBR0044767/manifest.xml":
			fmt.Fprint(w, `<work _latestItem="BWBR0044767_2024-01-01_0.xml"/>`)
		case "/bwb/BWBR0044767/BWBR0044767_2024-01-01_0.xml":
			fmt.Fprint(w, testContentXML)
		case "/bwb/BWBR0000001/manifest.xml":
			fmt.Fprint(w, `<work/>`)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

// runCommand executes the root command against server and returns stdout.
func runCommand(t *testing.T, server *httptest.Server, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	var stdout, stderr bytes.Buffer
	rootCmd := newRootCmd(&app{httpClient: server.Client()})
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(append([]string{"--base-url=" + server.URL + "/bwb/", "--log-level=error"}, args...))

	err := rootCmd.ExecuteContext(context.Background())
	return stdout.String(), err
}

func TestResolveCommand(t *testing.T) {
	server := newTestRepository(t)

	output, err := runCommand(t, server, "resolve", "Regeling kansspelen op afstand")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	if !strings.Contains(output, server.URL+"/bwb/BWBR0044767/manifest.xml") {
		t.Errorf("output should contain the manifest URL, got:\n%s", output)
	}
	if !strings.Contains(output, server.URL+"/bwb/BWBR0044767/BWBR0044767_2024-01-01_0.xml") {
		t.Errorf("output should contain the latest item URL, got:\n%s", output)
	}
}

func TestResolveCommand_JSON(t *testing.T) {
	server := newTestRepository(t)

	output, err := runCommand(t, server, "resolve", "BWBR0044767", "--json")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}

	var resolution bwb.Resolution
	if err := json.Unmarshal([]byte(output), &resolution); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, output)
	}
	if resolution.Identifier != "BWBR0044767" {
		t.Errorf("Identifier: got %q", resolution.Identifier)
	}
}

func TestResolveCommand_MissingPointer(t *testing.T) {
	server := newTestRepository(t)

	_, err := runCommand(t, server, "resolve", "BWBR0000001")
	if !errors.Is(err, bwb.ErrMissingLatestPointer) {
		t.Fatalf("expected ErrMissingLatestPointer, got %v", err)
	}
}

func TestOutlineCommand(t *testing.T) {
	server := newTestRepository(t)

	output, err := runCommand(t, server, "outline", "BWBR0044767")
	if err != nil {
		t.Fatalf("outline failed: %v", err)
	}

	want := "Algemene bepalingen\n  - Begripsbepalingen\nIntegriteitsbeleid\n  - Beleid\n  - Toezicht\n"
	if output != want {
		t.Errorf("outline output:\ngot:\n%s\nwant:\n%s", output, want)
	}
}

func TestOutlineCommand_JSON(t *testing.T) {
	server := newTestRepository(t)

	output, err := runCommand(t, server, "outline", "BWBR0044767", "--json")
	if err != nil {
		t.Fatalf("outline failed: %v", err)
	}

	var decoded struct {
		ContentLocation string              `json:"content_location"`
		Outline         map[string][]string `json:"outline"`
	}
	if err := json.Unmarshal([]byte(output), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, output)
	}
	if len(decoded.Outline["Integriteitsbeleid"]) != 2 {
		t.Errorf("outline: got %v", decoded.Outline)
	}
	if !strings.HasSuffix(decoded.ContentLocation, "BWBR0044767_2024-01-01_0.xml") {
		t.Errorf("ContentLocation: got %q", decoded.ContentLocation)
	}
}

func TestOutlineCommand_NotFound(t *testing.T) {
	server := newTestRepository(t)

	_, err := runCommand(t, server, "outline", "BWBR9999999")

	var fetchErr *bwb.FetchFailedError
	if !errors.As(err, &fetchErr) || fetchErr.StatusCode != http.StatusNotFound {
		t.Fatalf("expected a 404 FetchFailedError, got %v", err)
	}
}

func TestOutlineCommand_Chapter(t *testing.T) {
	server := newTestRepository(t)

	output, err := runCommand(t, server, "outline", "BWBR0044767", "--chapter=1")
	if err != nil {
		t.Fatalf("outline --chapter failed: %v", err)
	}
	want := "Integriteitsbeleid\n  - Beleid\n  - Toezicht\n"
	if output != want {
		t.Errorf("outline --chapter output:\ngot:\n%s\nwant:\n%s", output, want)
	}

	if _, err := runCommand(t, server, "outline", "BWBR0044767", "--chapter=5"); err == nil {
		t.Error("expected an error for a chapter outside the outline")
	}
}

func TestPagesCommand(t *testing.T) {
	server := newTestRepository(t)

	output, err := runCommand(t, server, "pages", "BWBR0044767")
	if err != nil {
		t.Fatalf("pages failed: %v", err)
	}

	for _, key := range []string{"c0 ", "c0/a0 ", "c1 ", "c1/a0 ", "c1/a1 "} {
		if !strings.Contains(output, key) {
			t.Errorf("pages output should list %q, got:\n%s", strings.TrimSpace(key), output)
		}
	}
}

func TestPagesCommand_Chapter(t *testing.T) {
	server := newTestRepository(t)

	output, err := runCommand(t, server, "pages", "BWBR0044767", "--chapter=0")
	if err != nil {
		t.Fatalf("pages --chapter failed: %v", err)
	}
	if !strings.Contains(output, "c0/a0 ") || strings.Contains(output, "c1") {
		t.Errorf("pages --chapter should list only the first chapter, got:\n%s", output)
	}

	if _, err := runCommand(t, server, "pages", "BWBR0044767", "--chapter=2"); err == nil {
		t.Error("expected an error for a chapter outside the outline")
	}
}

func TestShowCommand(t *testing.T) {
	server := newTestRepository(t)

	output, err := runCommand(t, server, "show", "BWBR0044767", "--page", "c1/a0")
	if err != nil {
		t.Fatalf("show failed: %v", err)
	}

	for _, want := range []string{"[c1/a0] Beleid", "Chapter: Integriteitsbeleid", "Previous: c1", "Next: c1/a1"} {
		if !strings.Contains(output, want) {
			t.Errorf("show output should contain %q, got:\n%s", want, output)
		}
	}

	firstPage, err := runCommand(t, server, "show", "BWBR0044767")
	if err != nil {
		t.Fatalf("show without page failed: %v", err)
	}
	if !strings.HasPrefix(firstPage, "[c0] Algemene bepalingen") || strings.Contains(firstPage, "Previous:") {
		t.Errorf("show without page should start at the first page, got:\n%s", firstPage)
	}
}

func TestShowCommand_UnknownPage(t *testing.T) {
	server := newTestRepository(t)

	_, err := runCommand(t, server, "show", "BWBR0044767", "--page", "c7/a7")
	if !errors.Is(err, navigation.ErrUnknownPage) {
		t.Fatalf("expected ErrUnknownPage, got %v", err)
	}

	_, err = runCommand(t, server, "show", "BWBR0044767", "--page", "Beleid")
	if !errors.Is(err, navigation.ErrInvalidPageKey) {
		t.Fatalf("expected ErrInvalidPageKey, got %v", err)
	}
}

func TestCatalogCommand(t *testing.T) {
	server := newTestRepository(t)

	output, err := runCommand(t, server, "catalog")
	if err != nil {
		t.Fatalf("catalog failed: %v", err)
	}
	if !strings.Contains(output, "BWBR0044767") || !strings.Contains(output, "Regeling kansspelen op afstand") {
		t.Errorf("catalog output: got:\n%s", output)
	}

	catalogPath := filepath.Join(t.TempDir(), "catalog.yaml")
	catalogYAML := "entries:\n  - description: Wet op de kansspelen\n    identifier: BWBR0002469\n"
	if err := os.WriteFile(catalogPath, []byte(catalogYAML), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	fileOutput, err := runCommand(t, server, "catalog", "--catalog", catalogPath)
	if err != nil {
		t.Fatalf("catalog with file failed: %v", err)
	}
	if !strings.Contains(fileOutput, "BWBR0002469") || strings.Contains(fileOutput, "BWBR0044767") {
		t.Errorf("catalog file output: got:\n%s", fileOutput)
	}
}

func TestInvalidConfiguration(t *testing.T) {
	server := newTestRepository(t)

	if _, err := runCommand(t, server, "catalog", "--log-format", "xml"); err == nil {
		t.Error("expected an error for an invalid log format")
	}
	if _, err := runCommand(t, server, "catalog", "--catalog", filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected an error for a missing catalog file")
	}
}
