package vanilla

import (
	"io/fs"
	"strings"
	"testing"
)

func TestAssetsFSStylesheetReadsThemeTokens(t *testing.T) {
	data, err := fs.ReadFile(AssetsFS(), StylesheetName)
	if err != nil {
		t.Fatalf("read stylesheet: %v", err)
	}
	for token := range DefaultManifest().Tokens {
		if !strings.Contains(string(data), "var(--"+token) {
			t.Fatalf("expected stylesheet to read token %q", token)
		}
	}
}

func TestAssetsFSScriptUnmutesOnInteraction(t *testing.T) {
	data, err := fs.ReadFile(AssetsFS(), RuntimeScriptName)
	if err != nil {
		t.Fatalf("read script: %v", err)
	}
	if !strings.Contains(string(data), "video.muted = false") {
		t.Fatalf("expected script to unmute after the first interaction")
	}
}

func TestAssetsFSScriptReadsRenderedAttributes(t *testing.T) {
	data, err := fs.ReadFile(AssetsFS(), RuntimeScriptName)
	if err != nil {
		t.Fatalf("read script: %v", err)
	}
	for _, attr := range []string{"data-src", "data-unmute-on", "data-fullscreen", "data-expandable", "formquery-poster"} {
		if !strings.Contains(string(data), attr) {
			t.Fatalf("expected script to handle %q", attr)
		}
	}
}
