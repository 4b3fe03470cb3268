package display

import (
	"net/url"
	"regexp"
	"strings"
)

var iframeSrc = regexp.MustCompile(`src="([^"]*)"`)

// EmbedURL turns an iframe source into the URL a kiosk should load. It
// accepts either a bare URL or a pasted <iframe> snippet, and makes YouTube
// and Vimeo embeds autoplay muted in a loop. An iframe snippet without a src
// yields "".
func EmbedURL(src string) string {
	raw := strings.TrimSpace(src)
	if strings.Contains(raw, "<iframe") {
		m := iframeSrc.FindStringSubmatch(raw)
		if m == nil {
			return ""
		}
		raw = m[1]
	}

	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return raw
	}
	q := u.Query()
	switch host := u.Hostname(); {
	case strings.Contains(host, "youtube.com") || strings.Contains(host, "youtu.be"):
		q.Set("autoplay", "1")
		q.Set("mute", "1")
		q.Set("loop", "1")
		// Looping a single video needs the playlist parameter set to itself.
		if parts := strings.Split(u.Path, "/"); parts[len(parts)-1] != "" {
			q.Set("playlist", parts[len(parts)-1])
		}
		q.Set("modestbranding", "1")
		q.Set("rel", "0")
		q.Set("controls", "0")
		q.Set("disablekb", "1")
	case strings.Contains(host, "vimeo.com"):
		q.Set("autoplay", "1")
		q.Set("muted", "1")
		q.Set("loop", "1")
	default:
		return u.String()
	}
	u.RawQuery = q.Encode()
	return u.String()
}
