package scrape

import (
	"testing"
)

func TestParseSearchOutput(t *testing.T) {
	stdout := `Searching TechPowerUp for "4090"...
[1] GeForce RTX 4090 → https://www.techpowerup.com/gpu-specs/geforce-rtx-4090.c3889
[2] GeForce RTX 4090 D → https://www.techpowerup.com/gpu-specs/geforce-rtx-4090-d.c4189
some unrelated log line
[3] RTX 4090 Mobile → https://www.techpowerup.com/gpu-specs/geforce-rtx-4090-mobile.c3949
`
	results := parseSearchOutput(stdout)
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[0].Index != 1 || results[0].Name != "GeForce RTX 4090" {
		t.Fatalf("unexpected first result: %+v", results[0])
	}
	if results[1].URL != "https://www.techpowerup.com/gpu-specs/geforce-rtx-4090-d.c4189" {
		t.Fatalf("unexpected url: %q", results[1].URL)
	}
	if results[2].Index != 3 {
		t.Fatalf("index not parsed: %+v", results[2])
	}
}

func TestParseSearchOutput_NoMatches(t *testing.T) {
	if got := parseSearchOutput("no results found\n"); len(got) != 0 {
		t.Fatalf("expected no results, got %v", got)
	}
}

func TestParseFetchLinks(t *testing.T) {
	stdout := "[1/2] GeForce RTX 4090：fetching https://www.techpowerup.com/gpu-specs/geforce-rtx-4090.c3889\n" +
		"progress line without url\n" +
		"https://www.techpowerup.com/gpu-specs/orphan-url.c1 without progress marker\n" +
		"[2/2] GeForce RTX 4080：fetching https://www.techpowerup.com/gpu-specs/geforce-rtx-4080.c3888\n"

	links := parseFetchLinks(stdout)
	if len(links) != 2 {
		t.Fatalf("expected 2 links, got %d: %v", len(links), links)
	}
	if links[0].Name != "GeForce RTX 4090" {
		t.Fatalf("unexpected name: %q", links[0].Name)
	}
	if links[1].URL != "https://www.techpowerup.com/gpu-specs/geforce-rtx-4080.c3888" {
		t.Fatalf("unexpected url: %q", links[1].URL)
	}
}
