package catalog

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestParseDirective(t *testing.T) {
	tests := []struct {
		in   string
		want Directive
	}{
		{
			in: `SPRITE sprite_regalo "sprites/Regalo.png" 4 4 BEST 1`,
			want: Directive{
				Type: "SPRITE", Name: "sprite_regalo", Source: "sprites/Regalo.png",
				Args: []string{"4", "4", "BEST", "1"},
			},
		},
		{
			in: `MAP image_fondo_polo_map "bg/FondoPolo.png" image_fondo_polo_tile BEST # Mapa`,
			want: Directive{
				Type: "MAP", Name: "image_fondo_polo_map", Source: "bg/FondoPolo.png",
				Args: []string{"image_fondo_polo_tile", "BEST"},
			},
		},
		{
			in:   "wav  snd_x\t\"sfx/with space.wav\"",
			want: Directive{Type: "WAV", Name: "snd_x", Source: "sfx/with space.wav"},
		},
		{
			in:   `ALIGN name 16`,
			want: Directive{Type: "ALIGN", Name: "name", Args: []string{"16"}},
		},
	}

	for _, tt := range tests {
		got, err := ParseDirective(tt.in)
		if err != nil {
			t.Errorf("ParseDirective(%q) returned error: %v", tt.in, err)
			continue
		}
		if diff := cmp.Diff(tt.want, got, cmpopts.EquateEmpty()); diff != "" {
			t.Errorf("ParseDirective(%q) mismatch (-want +got):\n%s", tt.in, diff)
		}
	}
}

func TestParseDirectiveErrors(t *testing.T) {
	for _, in := range []string{"", "SPRITE", `SPRITE s "open`, "# only a comment"} {
		if _, err := ParseDirective(in); err == nil {
			t.Errorf("Expected error for %q", in)
		}
	}
}

func TestSpriteTiles(t *testing.T) {
	d, _ := ParseDirective(`SPRITE sprite_chimenea "sprites/Chimenea.png" 3 10 BEST 1`)
	w, h, ok := d.SpriteTiles()
	if !ok || w != 3 || h != 10 {
		t.Errorf("Expected 3x10 tiles, got %dx%d (ok=%v)", w, h, ok)
	}

	d, _ = ParseDirective(`TILESET t "bg/A.png" BEST`)
	if _, _, ok := d.SpriteTiles(); ok {
		t.Error("Expected TILESET to have no sprite tiles")
	}

	d, _ = ParseDirective(`SPRITE s "a.png" x 4 BEST`)
	if _, _, ok := d.SpriteTiles(); ok {
		t.Error("Expected non-numeric tile width to be rejected")
	}
}
