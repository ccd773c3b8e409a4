package scrape

import "testing"

func TestImageSourcesDocumentOrder(t *testing.T) {
	t.Parallel()

	body := `<p>start</p>
	<img src="/first.png" alt="a">
	<div><img src="https://cdn.example.org/second.gif"></div>
	<img alt="no source">
	<img src="/third.jpg">`

	sources, err := New().ImageSources(body)
	if err != nil {
		t.Fatalf("ImageSources error: %v", err)
	}

	want := []string{"/first.png", "https://cdn.example.org/second.gif", "/third.jpg"}
	if len(sources) != len(want) {
		t.Fatalf("expected %d sources, got %v", len(want), sources)
	}
	for i := range want {
		if sources[i] != want[i] {
			t.Fatalf("source %d = %q, want %q", i, sources[i], want[i])
		}
	}
}

func TestImageSourcesNoImages(t *testing.T) {
	t.Parallel()

	sources, err := New().ImageSources("<p>plain text</p>")
	if err != nil {
		t.Fatalf("ImageSources error: %v", err)
	}
	if len(sources) != 0 {
		t.Fatalf("expected no sources, got %v", sources)
	}
}
