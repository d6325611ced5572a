package vision

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"strings"
	"testing"
)

func testImage(width, height int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.White)
		}
	}
	var buf bytes.Buffer
	jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90})
	return buf.Bytes()
}

func TestResizeImage_SmallImagePassesThrough(t *testing.T) {
	data := testImage(100, 100)

	resized, err := resizeImage(data, 800)
	if err != nil {
		t.Fatalf("resizeImage failed: %v", err)
	}

	img, format, err := image.Decode(bytes.NewReader(resized))
	if err != nil {
		t.Fatalf("failed to decode result: %v", err)
	}
	if format != "jpeg" {
		t.Errorf("expected jpeg, got %s", format)
	}
	if img.Bounds().Dx() != 100 || img.Bounds().Dy() != 100 {
		t.Errorf("expected 100x100, got %dx%d", img.Bounds().Dx(), img.Bounds().Dy())
	}
}

func TestResizeImage_ScalesDownKeepingAspect(t *testing.T) {
	data := testImage(1600, 800)

	resized, err := resizeImage(data, 800)
	if err != nil {
		t.Fatalf("resizeImage failed: %v", err)
	}

	img, _, err := image.Decode(bytes.NewReader(resized))
	if err != nil {
		t.Fatalf("failed to decode result: %v", err)
	}
	if img.Bounds().Dx() != 800 {
		t.Errorf("expected width 800, got %d", img.Bounds().Dx())
	}
	if img.Bounds().Dy() != 400 {
		t.Errorf("expected height 400, got %d", img.Bounds().Dy())
	}
}

func TestResizeImage_RejectsGarbage(t *testing.T) {
	if _, err := resizeImage([]byte("not an image"), 800); err == nil {
		t.Error("expected error for undecodable data")
	}
}

func TestPromptsEmbedded(t *testing.T) {
	if strings.TrimSpace(referenceDescriptionPrompt) == "" {
		t.Error("reference description prompt is empty")
	}
	if strings.TrimSpace(probeDescriptionPrompt) == "" {
		t.Error("probe description prompt is empty")
	}
	if !strings.Contains(rankCandidatesPrompt, "%s") {
		t.Error("rank prompt is missing format placeholders")
	}
}
