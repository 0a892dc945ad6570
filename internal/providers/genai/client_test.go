package genai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"booth/internal/domain"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

var testImage = domain.NewCanonicalImage([]byte("photo-bytes"), "image/jpeg")

func TestTransformImageMissingKeyMakesNoRequest(t *testing.T) {
	calls := 0
	client := NewClient(Options{HTTPClient: &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		calls++
		return nil, errors.New("unexpected")
	})}})

	_, err := client.TransformImage(context.Background(), testImage, "prompt")
	if !errors.Is(err, domain.ErrConfiguration) {
		t.Fatalf("err = %v, want ErrConfiguration", err)
	}
	if calls != 0 {
		t.Fatalf("transport calls = %d, want 0", calls)
	}
}

func TestTransformImageSendsPhotoAndPrompt(t *testing.T) {
	var got geminiGenerateContentRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models/gemini-2.5-flash-image:generateContent" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "secret" {
			t.Errorf("key = %q", r.URL.Query().Get("key"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		_, _ = io.WriteString(w, `{"candidates":[{"content":{"parts":[
			{"text":"here you go"},
			{"inlineData":{"mimeType":"image/png","data":"Zmlyc3Q="}},
			{"inlineData":{"mimeType":"image/png","data":"c2Vjb25k"}}
		]}}]}`)
	}))
	defer srv.Close()

	client := NewClient(Options{APIKey: "secret", BaseURL: srv.URL + "/"})
	uri, err := client.TransformImage(context.Background(), testImage, "make it festive")
	if err != nil {
		t.Fatalf("TransformImage returned error: %v", err)
	}
	if uri != "data:image/png;base64,Zmlyc3Q=" {
		t.Fatalf("uri = %q, want first inline image", uri)
	}
	if len(got.Contents) != 1 || len(got.Contents[0].Parts) != 2 {
		t.Fatalf("unexpected request contents: %#v", got.Contents)
	}
	inline := got.Contents[0].Parts[0].InlineData
	if inline == nil || inline.MimeType != "image/jpeg" || inline.Data != testImage.Data {
		t.Fatalf("inline part = %#v", inline)
	}
	if got.Contents[0].Parts[1].Text != "make it festive" {
		t.Fatalf("text part = %q", got.Contents[0].Parts[1].Text)
	}
	if got.GenerationConfig == nil || len(got.GenerationConfig.ResponseModalities) != 1 || got.GenerationConfig.ResponseModalities[0] != "IMAGE" {
		t.Fatalf("generation config = %#v", got.GenerationConfig)
	}
}

func TestTransformImageUpstreamErrors(t *testing.T) {
	tests := []struct {
		name      string
		transport roundTripFunc
		contains  string
	}{
		{
			name: "error envelope",
			transport: func(r *http.Request) (*http.Response, error) {
				return &http.Response{
					StatusCode: http.StatusBadRequest,
					Body:       io.NopCloser(strings.NewReader(`{"error":{"code":400,"message":"API key not valid"}}`)),
				}, nil
			},
			contains: "API key not valid",
		},
		{
			name: "plain body",
			transport: func(r *http.Request) (*http.Response, error) {
				return &http.Response{
					StatusCode: http.StatusServiceUnavailable,
					Body:       io.NopCloser(strings.NewReader("overloaded")),
				}, nil
			},
			contains: "overloaded",
		},
		{
			name: "transport failure",
			transport: func(r *http.Request) (*http.Response, error) {
				return nil, errors.New("connection reset")
			},
			contains: "connection reset",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client := NewClient(Options{APIKey: "k", HTTPClient: &http.Client{Transport: tc.transport}})
			_, err := client.TransformImage(context.Background(), testImage, "p")
			if !errors.Is(err, domain.ErrUpstream) {
				t.Fatalf("err = %v, want ErrUpstream", err)
			}
			if !strings.Contains(err.Error(), tc.contains) {
				t.Fatalf("err = %v, want it to contain %q", err, tc.contains)
			}
		})
	}
}

func TestTransformImageEmptyResult(t *testing.T) {
	bodies := map[string]string{
		"text only":  `{"candidates":[{"content":{"parts":[{"text":"sorry"}]},"finishReason":"STOP"}]}`,
		"no parts":   `{"candidates":[{"content":{},"finishReason":"IMAGE_SAFETY"}]}`,
		"blocked":    `{"promptFeedback":{"blockReason":"SAFETY"}}`,
		"empty data": `{"candidates":[{"content":{"parts":[{"inlineData":{"mimeType":"image/png"}}]}}]}`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			client := NewClient(Options{APIKey: "k", HTTPClient: &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
				return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(strings.NewReader(body))}, nil
			})}})
			_, err := client.TransformImage(context.Background(), testImage, "p")
			if !errors.Is(err, domain.ErrEmptyResult) {
				t.Fatalf("err = %v, want ErrEmptyResult", err)
			}
		})
	}
}

func TestTransformImageDefaultsMimeType(t *testing.T) {
	client := NewClient(Options{APIKey: "k", HTTPClient: &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
		return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(strings.NewReader(`{"candidates":[{"content":{"parts":[{"inlineData":{"data":"AAAA"}}]}}]}`))}, nil
	})}})
	uri, err := client.TransformImage(context.Background(), testImage, "p")
	if err != nil {
		t.Fatalf("TransformImage returned error: %v", err)
	}
	if uri != "data:image/png;base64,AAAA" {
		t.Fatalf("uri = %q", uri)
	}
}
