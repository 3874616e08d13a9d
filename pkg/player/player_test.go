package player_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formquery/pkg/player"
)

func TestMount_UserInitiated(t *testing.T) {
	overlay := player.NewOverlay(player.Capabilities{NativeHLS: true})

	got := overlay.Mount("https://cdn.test/a.m3u8", true)
	want := &player.Player{
		Source:            "https://cdn.test/a.m3u8",
		Engine:            player.EngineNative,
		Controls:          true,
		Autoplay:          true,
		PlaysInline:       true,
		UserInitiated:     true,
		RequestFullscreen: true,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("player mismatch (-want +got):\n%s", diff)
	}
}

func TestMount_AutoplayListensForFirstInteraction(t *testing.T) {
	overlay := player.NewOverlay(player.Capabilities{})

	p := overlay.Mount("https://cdn.test/b.m3u8", false)
	if !p.Muted || p.RequestFullscreen || p.Engine != player.EngineHLSJS {
		t.Fatalf("unexpected autoplay player %+v", p)
	}
	if diff := cmp.Diff([]string{"mousemove", "keydown", "click"}, p.UnmuteOn); diff != "" {
		t.Fatalf("unmute events mismatch (-want +got):\n%s", diff)
	}

	p.UnmuteOn[0] = "scroll"
	if player.UnmuteEvents[0] != "mousemove" {
		t.Fatalf("players must not share the event list")
	}
}

func TestMount_ReplacesAndCloses(t *testing.T) {
	overlay := player.NewOverlay(player.Capabilities{})
	overlay.Mount("https://cdn.test/1.m3u8", true)
	overlay.Mount("https://cdn.test/2.m3u8", true)

	cur, ok := overlay.Current()
	if !ok || cur.Source != "https://cdn.test/2.m3u8" {
		t.Fatalf("expected second mount to replace the first, got %+v", cur)
	}

	if p := overlay.Mount("", true); p != nil {
		t.Fatalf("expected nil player for an empty url")
	}
	if _, ok := overlay.Current(); ok {
		t.Fatalf("expected overlay to be closed")
	}

	overlay.Mount("https://cdn.test/3.m3u8", false)
	overlay.Close()
	if _, ok := overlay.Current(); ok {
		t.Fatalf("expected Close to unmount the player")
	}
}

func TestDetectCapabilities(t *testing.T) {
	tests := []struct {
		ua   string
		want bool
	}{
		{"Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 Version/17.0 Mobile/15E148 Safari/604.1", true},
		{"Mozilla/5.0 (Macintosh; Intel Mac OS X 14_0) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Safari/605.1.15", true},
		{"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := player.DetectCapabilities(tt.ua).NativeHLS; got != tt.want {
			t.Fatalf("DetectCapabilities(%q).NativeHLS = %v, want %v", tt.ua, got, tt.want)
		}
	}
}
