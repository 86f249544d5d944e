package inspect

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"

	"chosenoffset.com/genplaceholders/internal/catalog"
	"chosenoffset.com/genplaceholders/internal/manifest"
	"chosenoffset.com/genplaceholders/internal/placeholders"
)

const testCatalog = `
manifest: resources.res
entries:
  - path: bg/Fondo.png
    directive: PALETTE pal_fondo "bg/Fondo.png" BEST
    width: 32
    height: 16
  - path: bg/Fondo.png
    directive: TILESET tile_fondo "bg/Fondo.png" BEST
    width: 32
    height: 16
  - path: sprites/Nube.bmp
    directive: SPRITE sprite_nube "sprites/Nube.bmp" 2 2 BEST
    width: 32
    height: 16
  - path: music/tema.wav
    directive: WAV tema "music/tema.wav" XGM2
    manifest: music.res
    duration: 1s
`

func generate(t *testing.T, root string, cat *catalog.Catalog) {
	t.Helper()
	gen := placeholders.NewGenerator(placeholders.Options{
		Root:  root,
		Image: placeholders.DefaultImageOptions(),
		Audio: placeholders.DefaultToneOptions(),
	}, zap.NewNop())
	if _, err := gen.EnsureFiles(context.Background(), cat); err != nil {
		t.Fatalf("EnsureFiles failed: %v", err)
	}
}

func TestInspectGeneratedTree(t *testing.T) {
	root := t.TempDir()
	cat, err := catalog.Parse([]byte(testCatalog))
	if err != nil {
		t.Fatal(err)
	}
	generate(t, root, cat)

	// Only the palette line is listed so far.
	if _, err := manifest.Ensure(filepath.Join(root, "resources.res"), []string{cat.Entries[0].Line()}, manifest.Options{}); err != nil {
		t.Fatal(err)
	}

	manifests, err := ReadManifests(root, cat)
	if err != nil {
		t.Fatalf("ReadManifests failed: %v", err)
	}
	reports, err := Inspect(root, cat, manifests)
	if err != nil {
		t.Fatalf("Inspect failed: %v", err)
	}
	if len(reports) != 4 {
		t.Fatalf("Expected 4 reports, got %d", len(reports))
	}

	for _, r := range reports {
		if !r.Exists {
			t.Errorf("Expected %s to exist", r.Entry.Path)
		}
		if r.Size <= 0 {
			t.Errorf("Expected %s to have a size, got %d", r.Entry.Path, r.Size)
		}
		if r.Problem != "" {
			t.Errorf("Unexpected problem for %s: %s", r.Entry.Path, r.Problem)
		}
	}

	if got := reports[0].Detail; got != "32x16 png, 16 colours" {
		t.Errorf("Unexpected png detail %q", got)
	}
	if got := reports[2].Detail; !strings.HasPrefix(got, "32x16 bmp") {
		t.Errorf("Unexpected bmp detail %q", got)
	}
	if got := reports[3].Detail; got != "22050 Hz, 1s" {
		t.Errorf("Unexpected wav detail %q", got)
	}

	listed := []bool{reports[0].Listed, reports[1].Listed, reports[2].Listed, reports[3].Listed}
	if diff := cmp.Diff([]bool{true, false, false, false}, listed); diff != "" {
		t.Errorf("Listed mismatch (-want +got):\n%s", diff)
	}
	if reports[3].Manifest != "music.res" {
		t.Errorf("Expected music.res, got %s", reports[3].Manifest)
	}
}

func TestInspectMissingAndBrokenFiles(t *testing.T) {
	root := t.TempDir()
	cat, err := catalog.Parse([]byte(testCatalog))
	if err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(root, "music"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "music", "tema.wav"), []byte("not a wav"), 0o644); err != nil {
		t.Fatal(err)
	}

	reports, err := Inspect(root, cat, nil)
	if err != nil {
		t.Fatalf("Inspect failed: %v", err)
	}
	if reports[0].Exists {
		t.Error("Expected missing image to be reported as missing")
	}
	wavReport := reports[3]
	if !wavReport.Exists || wavReport.Problem == "" {
		t.Errorf("Expected broken wav to be reported, got %+v", wavReport)
	}
}

func TestScanOrphans(t *testing.T) {
	root := t.TempDir()
	cat, err := catalog.Parse([]byte(testCatalog))
	if err != nil {
		t.Fatal(err)
	}
	generate(t, root, cat)

	extra := []string{
		"bg/Viejo.png",
		"sfx/beep.WAV",
		"notes.txt",
		".git/logo.png",
	}
	for _, p := range extra {
		full := filepath.Join(root, filepath.FromSlash(p))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	orphans, err := ScanOrphans(root, cat)
	if err != nil {
		t.Fatalf("ScanOrphans failed: %v", err)
	}
	if diff := cmp.Diff([]string{"bg/Viejo.png", "sfx/beep.WAV"}, orphans); diff != "" {
		t.Errorf("orphans mismatch (-want +got):\n%s", diff)
	}
}

func TestScanOrphansMissingRoot(t *testing.T) {
	orphans, err := ScanOrphans(filepath.Join(t.TempDir(), "absent"), catalog.Default())
	if err != nil {
		t.Fatalf("Expected missing root to be empty, got %v", err)
	}
	if len(orphans) != 0 {
		t.Errorf("Expected no orphans, got %v", orphans)
	}
}
