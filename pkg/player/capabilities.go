package player

import "strings"

// DetectCapabilities guesses native HLS support from a User-Agent. Safari
// on every Apple platform plays HLS natively; Chromium and Firefox need the
// script engine.
func DetectCapabilities(userAgent string) Capabilities {
	ua := strings.ToLower(userAgent)
	if ua == "" {
		return Capabilities{}
	}
	if strings.Contains(ua, "iphone") || strings.Contains(ua, "ipad") {
		return Capabilities{NativeHLS: true}
	}
	safari := strings.Contains(ua, "safari") && strings.Contains(ua, "version/")
	chromium := strings.Contains(ua, "chrome") || strings.Contains(ua, "chromium") || strings.Contains(ua, "edg/")
	return Capabilities{NativeHLS: safari && !chromium}
}
