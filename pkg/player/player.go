// Package player models the video overlay of the listing page: at most one
// player is mounted at a time, players started by the user play with sound
// and go fullscreen, and autoplayed players stay muted until the first user
// interaction.
package player

import (
	"sync"

	"github.com/goliatone/go-formquery/internal/logging"
)

// Playback engines.
const (
	EngineNative = "native"
	EngineHLSJS  = "hls.js"
)

// HLSMimeType is the playlist type probed for native support.
const HLSMimeType = "application/vnd.apple.mpegurl"

// UnmuteEvents are the interactions that unmute an autoplayed player.
var UnmuteEvents = []string{"mousemove", "keydown", "click"}

// Capabilities describes what the client can do natively.
type Capabilities struct {
	NativeHLS bool
}

// Player is a mounted video element.
type Player struct {
	Source            string `json:"source"`
	Engine            string `json:"engine"`
	Controls          bool   `json:"controls"`
	Autoplay          bool   `json:"autoplay"`
	PlaysInline       bool   `json:"playsInline"`
	Muted             bool   `json:"muted"`
	UserInitiated     bool   `json:"userInitiated"`
	RequestFullscreen bool   `json:"requestFullscreen"`

	// UnmuteOn lists the first-interaction events the page listens for
	// while the player is muted.
	UnmuteOn []string `json:"unmuteOn,omitempty"`
}

// Overlay owns the single mounted player.
type Overlay struct {
	mu      sync.Mutex
	caps    Capabilities
	current *Player
}

// NewOverlay returns an empty overlay for a client with caps.
func NewOverlay(caps Capabilities) *Overlay {
	return &Overlay{caps: caps}
}

// Mount replaces any mounted player with one playing url. An empty url only
// closes the overlay and returns nil.
func (o *Overlay) Mount(url string, userInitiated bool) *Player {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.current = nil
	if url == "" {
		return nil
	}

	engine := EngineHLSJS
	if o.caps.NativeHLS {
		engine = EngineNative
	}
	p := &Player{
		Source:            url,
		Engine:            engine,
		Controls:          true,
		Autoplay:          true,
		PlaysInline:       true,
		Muted:             !userInitiated,
		UserInitiated:     userInitiated,
		RequestFullscreen: userInitiated,
	}
	if p.Muted {
		p.UnmuteOn = append([]string(nil), UnmuteEvents...)
	}
	o.current = p
	logging.Debug("player: mounted %s (engine=%s, user=%v)", url, engine, userInitiated)
	return p
}

// Close removes the mounted player.
func (o *Overlay) Close() {
	o.Mount("", false)
}

// Current returns a copy of the mounted player, if any.
func (o *Overlay) Current() (Player, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.current == nil {
		return Player{}, false
	}
	return *o.current, true
}
