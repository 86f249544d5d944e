package placeholders

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/image/bmp"
)

func TestPickColorIndexIsDeterministicAndInRange(t *testing.T) {
	seeds := []string{"bg/FondoPolo.png", "sprites/Regalo.png", "sprites/Globo.png", "", "x"}
	for _, seed := range seeds {
		first := PickColorIndex(seed)
		if first < 1 || first > 15 {
			t.Errorf("PickColorIndex(%q) = %d, expected value in [1, 15]", seed, first)
		}
		for i := 0; i < 5; i++ {
			if got := PickColorIndex(seed); got != first {
				t.Errorf("PickColorIndex(%q) changed between calls: %d then %d", seed, first, got)
			}
		}
	}
}

func TestPickColorIndexSpreadsAcrossPalette(t *testing.T) {
	seen := map[uint8]bool{}
	for i := 0; i < 200; i++ {
		seen[PickColorIndex(filepath.Join("sprites", string(rune('a'+i%26)), string(rune('A'+i/26))))] = true
	}
	if len(seen) < 8 {
		t.Errorf("Expected seeds to spread over the palette, only %d colours used", len(seen))
	}
}

func TestRenderImageSingleCircle(t *testing.T) {
	spec := ImageSpec{Width: 128, Height: 96, Seed: "bg/FondoPolo.png"}
	img, err := RenderImage(spec)
	if err != nil {
		t.Fatalf("RenderImage failed: %v", err)
	}

	if b := img.Bounds(); b.Dx() != 128 || b.Dy() != 96 {
		t.Fatalf("Expected 128x96 image, got %dx%d", b.Dx(), b.Dy())
	}
	if len(img.Palette) != 16 {
		t.Errorf("Expected 16-colour palette, got %d", len(img.Palette))
	}

	want := PickColorIndex(spec.Seed)
	// radius = min(128, 96) / 3 = 32, centre (64, 48)
	if got := img.ColorIndexAt(64, 48); got != want {
		t.Errorf("Expected centre index %d, got %d", want, got)
	}
	if got := img.ColorIndexAt(64+32, 48); got != want {
		t.Errorf("Expected circle edge at radius to be filled, got %d", got)
	}
	if got := img.ColorIndexAt(64+33, 48); got != 0 {
		t.Errorf("Expected background just outside radius, got %d", got)
	}
	if got := img.ColorIndexAt(0, 0); got != 0 {
		t.Errorf("Expected background corner, got %d", got)
	}
}

func TestRenderImageSpriteFrames(t *testing.T) {
	// 64x64 sheet of 32x32 frames: four circles
	spec := ImageSpec{Width: 64, Height: 64, Seed: "sprites/Regalo.png", FrameWidth: 32, FrameHeight: 32}
	img, err := RenderImage(spec)
	if err != nil {
		t.Fatalf("RenderImage failed: %v", err)
	}
	want := PickColorIndex(spec.Seed)
	for _, p := range []image.Point{{16, 16}, {48, 16}, {16, 48}, {48, 48}} {
		if got := img.ColorIndexAt(p.X, p.Y); got != want {
			t.Errorf("Expected frame centre %v to be filled with %d, got %d", p, want, got)
		}
	}
	if got := img.ColorIndexAt(32, 32); got != 0 {
		t.Errorf("Expected frame corner to be background, got %d", got)
	}
}

func TestRenderImageFramesThatDoNotTileFallBack(t *testing.T) {
	spec := ImageSpec{Width: 64, Height: 64, Seed: "sprites/CanonPolo.png", FrameWidth: 80, FrameHeight: 64}
	cols, rows := spec.frames()
	if cols != 1 || rows != 1 {
		t.Errorf("Expected single frame, got %dx%d", cols, rows)
	}
}

func TestRenderImageRejectsEmptySize(t *testing.T) {
	if _, err := RenderImage(ImageSpec{Width: 0, Height: 10}); err == nil {
		t.Error("Expected error for zero width")
	}
}

func TestSaveImageFormats(t *testing.T) {
	dir := t.TempDir()
	img, err := RenderImage(ImageSpec{Width: 48, Height: 32, Seed: "seed"})
	if err != nil {
		t.Fatalf("RenderImage failed: %v", err)
	}

	pngPath := filepath.Join(dir, "nested", "a.png")
	if err := SaveImage(img, pngPath); err != nil {
		t.Fatalf("SaveImage png failed: %v", err)
	}
	f, err := os.Open(pngPath)
	if err != nil {
		t.Fatalf("open png: %v", err)
	}
	defer f.Close()
	decoded, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	pal, ok := decoded.(*image.Paletted)
	if !ok {
		t.Fatalf("Expected paletted PNG, got %T", decoded)
	}
	if pal.ColorIndexAt(24, 16) != PickColorIndex("seed") {
		t.Errorf("PNG round trip lost the circle colour")
	}

	bmpPath := filepath.Join(dir, "a.bmp")
	if err := SaveImage(img, bmpPath); err != nil {
		t.Fatalf("SaveImage bmp failed: %v", err)
	}
	data, err := os.ReadFile(bmpPath)
	if err != nil {
		t.Fatalf("read bmp: %v", err)
	}
	cfg, err := bmp.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode bmp config: %v", err)
	}
	if cfg.Width != 48 || cfg.Height != 32 {
		t.Errorf("Expected 48x32 bmp, got %dx%d", cfg.Width, cfg.Height)
	}

	if err := SaveImage(img, filepath.Join(dir, "a.gif")); err == nil {
		t.Error("Expected error for unsupported image extension")
	}
}

func TestToneForDefaults(t *testing.T) {
	opts := DefaultToneOptions()
	tone := ToneFor("sfx/snd_disparo_red.wav", 0, 0, opts)

	if tone.Frequency < 440 || tone.Frequency > 1320 {
		t.Errorf("Expected frequency in [440, 1320], got %v", tone.Frequency)
	}
	if tone.Duration != 250*time.Millisecond {
		t.Errorf("Expected 250ms, got %v", tone.Duration)
	}
	if tone.FrameCount() != 5512 {
		t.Errorf("Expected 5512 frames, got %d", tone.FrameCount())
	}

	again := ToneFor("sfx/snd_disparo_red.wav", 0, 0, opts)
	if again != tone {
		t.Errorf("Expected identical tone on second call, got %+v vs %+v", again, tone)
	}

	fixed := ToneFor("sfx/x.wav", 523.25, 2*time.Second, opts)
	if fixed.Frequency != 523.25 || fixed.Duration != 2*time.Second {
		t.Errorf("Expected explicit frequency and duration to win, got %+v", fixed)
	}
}

func TestToneSamples(t *testing.T) {
	tone := Tone{Frequency: 1000, Duration: 10 * time.Millisecond, SampleRate: 8000, Amplitude: 16000}
	samples := tone.Samples()
	if len(samples) != 80 {
		t.Fatalf("Expected 80 samples, got %d", len(samples))
	}
	// 8 samples per period: 0, +peak at i=2, 0 at i=4, -peak at i=6
	if samples[0] != 0 {
		t.Errorf("Expected first sample 0, got %d", samples[0])
	}
	if samples[2] != 16000 {
		t.Errorf("Expected peak 16000, got %d", samples[2])
	}
	if samples[6] != -16000 {
		t.Errorf("Expected trough -16000, got %d", samples[6])
	}
}

func TestWriteWAVHeader(t *testing.T) {
	tone := Tone{Frequency: 440, Duration: 250 * time.Millisecond, SampleRate: 22050, Amplitude: 16000}
	var buf bytes.Buffer
	if err := WriteWAV(&buf, tone); err != nil {
		t.Fatalf("WriteWAV failed: %v", err)
	}
	data := buf.Bytes()

	dataSize := 5512 * 2
	if len(data) != 44+dataSize {
		t.Fatalf("Expected %d bytes, got %d", 44+dataSize, len(data))
	}
	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" ||
		string(data[12:16]) != "fmt " || string(data[36:40]) != "data" {
		t.Errorf("Unexpected chunk ids in header: %q", data[:44])
	}

	le := binary.LittleEndian
	checks := []struct {
		name string
		got  uint32
		want uint32
	}{
		{"riff size", le.Uint32(data[4:8]), uint32(36 + dataSize)},
		{"fmt size", le.Uint32(data[16:20]), 16},
		{"format", uint32(le.Uint16(data[20:22])), 1},
		{"channels", uint32(le.Uint16(data[22:24])), 1},
		{"sample rate", le.Uint32(data[24:28]), 22050},
		{"byte rate", le.Uint32(data[28:32]), 44100},
		{"block align", uint32(le.Uint16(data[32:34])), 2},
		{"bits", uint32(le.Uint16(data[34:36])), 16},
		{"data size", le.Uint32(data[40:44]), uint32(dataSize)},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("Expected %s %d, got %d", c.name, c.want, c.got)
		}
	}
}

func TestWriteWAVRejectsInvalidTone(t *testing.T) {
	bad := []Tone{
		{Frequency: 440, Duration: time.Second, SampleRate: 0, Amplitude: 100},
		{Frequency: 440, Duration: time.Second, SampleRate: 8000, Amplitude: 40000},
		{Frequency: 0, Duration: time.Second, SampleRate: 8000, Amplitude: 100},
		{Frequency: 4000, Duration: time.Second, SampleRate: 8000, Amplitude: 100},
	}
	for _, tone := range bad {
		if err := WriteWAV(&bytes.Buffer{}, tone); err == nil {
			t.Errorf("Expected error for %+v", tone)
		}
	}
}
