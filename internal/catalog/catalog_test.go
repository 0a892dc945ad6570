package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultCatalogOrder(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("Default returned error: %v", err)
	}
	want := []string{"home_alone", "polar_express", "vintage_card"}
	styles := c.Styles()
	if len(styles) != len(want) {
		t.Fatalf("len = %d, want %d", len(styles), len(want))
	}
	for i, id := range want {
		if styles[i].ID != id {
			t.Fatalf("styles[%d].ID = %q, want %q", i, styles[i].ID, id)
		}
		if styles[i].Prompt == "" || styles[i].Name == "" {
			t.Fatalf("styles[%d] incomplete: %#v", i, styles[i])
		}
	}
}

func TestParseDerivesNameAndRejectsInvalid(t *testing.T) {
	c, err := Parse([]byte("styles:\n  - id: snow_globe\n    prompt: put them in a snow globe\n"))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if got := c.Styles()[0].Name; got != "Snow Globe" {
		t.Fatalf("Name = %q, want %q", got, "Snow Globe")
	}

	invalid := map[string]string{
		"missing id":     "styles:\n  - prompt: x\n",
		"missing prompt": "styles:\n  - id: a\n",
		"duplicate":      "styles:\n  - id: a\n    prompt: x\n  - id: a\n    prompt: y\n",
		"bad yaml":       "styles: [",
	}
	for name, doc := range invalid {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse([]byte(doc)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestParseEmptyCatalog(t *testing.T) {
	c, err := Parse([]byte("styles: []\n"))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if c.Len() != 0 {
		t.Fatalf("Len = %d, want 0", c.Len())
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "styles.yaml")
	doc := "styles:\n  - id: one\n    name: Um\n    prompt: p1\n  - id: two\n    prompt: p2\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if c.Len() != 2 || c.Styles()[0].Name != "Um" {
		t.Fatalf("unexpected catalog: %#v", c.Styles())
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil || !strings.Contains(err.Error(), "read") {
		t.Fatalf("missing file err = %v", err)
	}
}

func TestStylesReturnsCopy(t *testing.T) {
	c, _ := Default()
	s := c.Styles()
	s[0].ID = "mutated"
	if c.Styles()[0].ID == "mutated" {
		t.Fatal("Styles must not expose internal slice")
	}
}
