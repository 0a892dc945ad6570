package image

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"booth/internal/domain"
)

func TestNewSelectsProvider(t *testing.T) {
	tr, err := New(Options{Provider: "Synthetic"})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if _, ok := tr.(*Synthetic); !ok {
		t.Fatalf("provider = %T, want *Synthetic", tr)
	}

	tr, err = New(Options{})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	gemini, ok := tr.(*GeminiTransformer)
	if !ok {
		t.Fatalf("provider = %T, want *GeminiTransformer", tr)
	}
	if gemini.String() != "gemini-2.5-flash-image" {
		t.Fatalf("model = %q", gemini.String())
	}

	if _, err := New(Options{Provider: "dalle"}); !errors.Is(err, domain.ErrConfiguration) {
		t.Fatalf("err = %v, want ErrConfiguration", err)
	}
}

func TestGeminiTransformerWithoutKeyFails(t *testing.T) {
	tr, _ := New(Options{Provider: ProviderGemini})
	_, err := tr.Transform(context.Background(), domain.NewCanonicalImage([]byte("x"), "image/png"), "p")
	if !errors.Is(err, domain.ErrConfiguration) {
		t.Fatalf("err = %v, want ErrConfiguration", err)
	}
}

func TestSyntheticIsDeterministic(t *testing.T) {
	s := &Synthetic{Width: 40, Height: 30}
	img := domain.NewCanonicalImage([]byte("face"), "image/jpeg")

	a, err := s.Transform(context.Background(), img, "snow")
	if err != nil {
		t.Fatalf("Transform returned error: %v", err)
	}
	b, _ := s.Transform(context.Background(), img, "snow")
	c, _ := s.Transform(context.Background(), img, "sleigh")
	if a != b {
		t.Fatal("same input produced different output")
	}
	if a == c {
		t.Fatal("different prompts produced identical output")
	}
	if !strings.HasPrefix(a, "data:image/png;base64,") {
		t.Fatalf("unexpected uri prefix: %q", a[:30])
	}
}

func TestSyntheticHonoursCancellation(t *testing.T) {
	s := &Synthetic{Delay: time.Hour}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.Transform(ctx, domain.CanonicalImage{}, "p"); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
