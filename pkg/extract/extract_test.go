package extract

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const iosSnapshot = `<?xml version="1.0" encoding="UTF-8"?>
<AppiumAUT>
  <XCUIElementTypeApplication name="TestApp">
    <XCUIElementTypeButton name="submitBtn" label="Submit" enabled="true" visible="true" x="100" y="200" width="100" height="44" />
    <XCUIElementTypeButton label="Cancel" enabled="true" visible="true" x="210" y="200" width="100" height="44" />
    <XCUIElementTypeStaticText label="Welcome" enabled="true" visible="true" x="50" y="100" width="200" height="30" />
  </XCUIElementTypeApplication>
</AppiumAUT>`

func writeSnapshot(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRun_SingleFile(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()
	file := writeSnapshot(t, inDir, "page_1.xml", iosSnapshot)

	results, err := Run(Options{
		Inputs:    []string{file},
		OutputDir: outDir,
		Quiet:     true,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(results))
	}

	r := results[0]
	if r.Err != nil {
		t.Fatalf("Unexpected file error: %v", r.Err)
	}
	// Root, application, two buttons, static text
	if r.Elements != 5 {
		t.Errorf("Expected 5 elements, got %d", r.Elements)
	}
	if filepath.Base(r.Output) != "page_1_locators.txt" {
		t.Errorf("Unexpected output name: %s", r.Output)
	}

	data, err := os.ReadFile(r.Output)
	if err != nil {
		t.Fatalf("Output not written: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 5 {
		t.Fatalf("Expected 5 lines, got %d", len(lines))
	}

	// Traversal order: root first, then pre-order
	if !strings.HasPrefix(lines[0], "AppiumAUT\t") {
		t.Errorf("First line should be the root: %s", lines[0])
	}
	if !strings.Contains(lines[2], "//*[@name='submitBtn']") {
		t.Errorf("submitBtn should use its identifier: %s", lines[2])
	}
	if !strings.Contains(lines[3], "/XCUIElementTypeApplication[1]/XCUIElementTypeButton[2]") {
		t.Errorf("Cancel button should use a positional path: %s", lines[3])
	}
}

func TestRun_Deterministic(t *testing.T) {
	inDir := t.TempDir()
	file := writeSnapshot(t, inDir, "page_1.xml", iosSnapshot)

	read := func() string {
		outDir := t.TempDir()
		results, err := Run(Options{Inputs: []string{file}, OutputDir: outDir, Quiet: true})
		if err != nil || results[0].Err != nil {
			t.Fatalf("Run failed: %v / %v", err, results[0].Err)
		}
		data, err := os.ReadFile(results[0].Output)
		if err != nil {
			t.Fatal(err)
		}
		return string(data)
	}

	if read() != read() {
		t.Error("Two extractions of the same snapshot differ")
	}
}

func TestRun_BatchContinuesPastParseError(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()
	writeSnapshot(t, inDir, "page_1.xml", iosSnapshot)
	writeSnapshot(t, inDir, "page_2.xml", `<hierarchy><unclosed>`)
	writeSnapshot(t, inDir, "page_3.xml", iosSnapshot)

	results, err := Run(Options{
		Inputs:    []string{inDir},
		OutputDir: outDir,
		Quiet:     true,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(results))
	}

	failed := Failed(results)
	if len(failed) != 1 {
		t.Fatalf("Expected 1 failed file, got %d", len(failed))
	}
	if filepath.Base(failed[0].File) != "page_2.xml" {
		t.Errorf("Wrong file failed: %s", failed[0].File)
	}

	// The malformed file must not produce an output file
	if _, err := os.Stat(filepath.Join(outDir, "page_2_locators.txt")); !os.IsNotExist(err) {
		t.Error("Malformed snapshot should produce no output file")
	}
	// The good files still produced output
	for _, name := range []string{"page_1_locators.txt", "page_3_locators.txt"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Errorf("Missing output for good file: %s", name)
		}
	}
}

func TestRun_InteractiveOnly(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()
	file := writeSnapshot(t, inDir, "page_1.xml", iosSnapshot)

	results, err := Run(Options{
		Inputs:          []string{file},
		OutputDir:       outDir,
		InteractiveOnly: true,
		Quiet:           true,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// Two buttons and the static text are interactive; app and root are not
	if results[0].Elements != 3 {
		t.Errorf("Expected 3 interactive elements, got %d", results[0].Elements)
	}
}

func TestRun_TagFilter(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()
	file := writeSnapshot(t, inDir, "page_1.xml", iosSnapshot)

	results, err := Run(Options{
		Inputs:    []string{file},
		OutputDir: outDir,
		Tags:      []string{"XCUIElementTypeButton"},
		Quiet:     true,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if results[0].Elements != 2 {
		t.Errorf("Expected 2 buttons, got %d", results[0].Elements)
	}
}

func TestRun_EmptyMatchSet(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()
	file := writeSnapshot(t, inDir, "page_1.xml", `<hierarchy></hierarchy>`)

	results, err := Run(Options{
		Inputs:    []string{file},
		OutputDir: outDir,
		Tags:      []string{"android.widget.Button"}, // nothing matches
		Quiet:     true,
	})
	if err != nil {
		t.Fatalf("Run should succeed on empty match set: %v", err)
	}
	if results[0].Err != nil {
		t.Fatalf("Unexpected file error: %v", results[0].Err)
	}
	if results[0].Elements != 0 {
		t.Errorf("Expected 0 elements, got %d", results[0].Elements)
	}

	data, err := os.ReadFile(results[0].Output)
	if err != nil {
		t.Fatalf("Output file should still exist: %v", err)
	}
	if len(data) != 0 {
		t.Errorf("Expected empty output, got %d bytes", len(data))
	}
}

func TestRun_MasterFileDedup(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()
	// Same screen saved twice plus one distinct screen
	writeSnapshot(t, inDir, "page_1.xml", iosSnapshot)
	writeSnapshot(t, inDir, "page_2.xml", iosSnapshot)
	writeSnapshot(t, inDir, "page_3.xml", `<AppiumAUT>
  <XCUIElementTypeButton name="logout" label="Log out" enabled="true" visible="true" x="0" y="0" width="80" height="40" />
</AppiumAUT>`)

	_, err := Run(Options{
		Inputs:    []string{inDir},
		OutputDir: outDir,
		Quiet:     true,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(outDir, MasterFile))
	if err != nil {
		t.Fatalf("Master file not written: %v", err)
	}
	content := string(data)

	if got := strings.Count(content, "Locator: //*[@name='submitBtn']"); got != 1 {
		t.Errorf("submitBtn should appear once in master file, got %d", got)
	}
	if !strings.Contains(content, "name='logout'") {
		t.Error("logout button missing from master file")
	}
}

func TestRun_SameBasenameFromDifferentDirs(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()
	for _, run := range []string{"run_a", "run_b"} {
		if err := os.MkdirAll(filepath.Join(inDir, run), 0o755); err != nil {
			t.Fatal(err)
		}
		writeSnapshot(t, filepath.Join(inDir, run), "page_1.xml", iosSnapshot)
	}

	results, err := Run(Options{
		Inputs:    []string{inDir},
		OutputDir: outDir,
		Quiet:     true,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}

	// Both inputs must keep their output instead of overwriting each other.
	if results[0].Output == results[1].Output {
		t.Fatalf("Colliding basenames wrote to the same output: %s", results[0].Output)
	}
	for _, name := range []string{"page_1_locators.txt", "page_1_2_locators.txt"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Errorf("Missing output %s: %v", name, err)
		}
	}
}

func TestRun_WalksNestedDirectories(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()
	runDir := filepath.Join(inDir, "2026-01-02_15-04-05")
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		t.Fatal(err)
	}
	writeSnapshot(t, runDir, "page_1.xml", iosSnapshot)
	writeSnapshot(t, runDir, "notes.txt", "not a snapshot")

	results, err := Run(Options{
		Inputs:    []string{inDir},
		OutputDir: outDir,
		Quiet:     true,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("Expected 1 result from the nested run directory, got %d", len(results))
	}
	if filepath.Base(results[0].File) != "page_1.xml" {
		t.Errorf("Unexpected input picked up: %s", results[0].File)
	}
}

func TestRun_UnknownFormat(t *testing.T) {
	if _, err := Run(Options{Inputs: []string{"x"}, OutputDir: t.TempDir(), Format: "csv"}); err == nil {
		t.Error("Expected error for unknown format")
	}
}

func TestRun_MissingInput(t *testing.T) {
	if _, err := Run(Options{Inputs: []string{"/does/not/exist"}, OutputDir: t.TempDir(), Quiet: true}); err == nil {
		t.Error("Expected error for missing input")
	}

	if _, err := Run(Options{OutputDir: t.TempDir(), Quiet: true}); err == nil {
		t.Error("Expected error for no inputs")
	}
}

func TestRun_ReportFormat(t *testing.T) {
	inDir := t.TempDir()
	outDir := t.TempDir()
	file := writeSnapshot(t, inDir, "page_1.xml", iosSnapshot)

	results, err := Run(Options{
		Inputs:    []string{file},
		OutputDir: outDir,
		Format:    "report",
		Quiet:     true,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	data, err := os.ReadFile(results[0].Output)
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)

	if !strings.Contains(content, "=== Locators for page_1.xml ===") {
		t.Error("Report header missing")
	}
	if !strings.Contains(content, "Classification: Interactive") {
		t.Error("Classification line missing")
	}
	if !strings.Contains(content, "Position: x=100, y=200, width=100, height=44") {
		t.Error("Position line missing")
	}
	if !strings.Contains(content, "**/XCUIElementTypeButton[@name='submitBtn']") {
		t.Error("Class chain candidate missing")
	}
}
