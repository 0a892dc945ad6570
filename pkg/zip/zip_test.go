package zip

import (
	"archive/zip"
	"bytes"
	"io"
	"testing"
)

func TestArchiveAssets(t *testing.T) {
	data, err := ArchiveAssets([]Asset{
		{Filename: "01-home_alone.png", MIME: "image/png", Data: []byte("one")},
		{Filename: "foto-cabine-pd-stories.png", MIME: "image/png", Data: []byte("final")},
	})
	if err != nil {
		t.Fatalf("ArchiveAssets returned error: %v", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	if len(zr.File) != 2 {
		t.Fatalf("archive has %d files", len(zr.File))
	}
	if zr.File[0].Name != "01-home_alone.png" || zr.File[1].Name != "foto-cabine-pd-stories.png" {
		t.Fatalf("unexpected order: %s, %s", zr.File[0].Name, zr.File[1].Name)
	}
	rc, err := zr.File[1].Open()
	if err != nil {
		t.Fatalf("open entry: %v", err)
	}
	defer rc.Close()
	body, _ := io.ReadAll(rc)
	if string(body) != "final" {
		t.Fatalf("entry content = %q", body)
	}
}

func TestArchiveAssetsEmpty(t *testing.T) {
	data, err := ArchiveAssets(nil)
	if err != nil {
		t.Fatalf("ArchiveAssets returned error: %v", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil || len(zr.File) != 0 {
		t.Fatalf("empty archive = %v, %v", zr, err)
	}
}
