package display

import (
	"github.com/rs/zerolog"

	"github.com/zaqqye/signage_backend/internal/models"
	"github.com/zaqqye/signage_backend/internal/playlist"
)

// Renderer draws what the player decides. Calls come from the player's
// goroutine only.
type Renderer interface {
	State(s State)
	Show(index int, item playlist.Entry, transition models.Transition)
	ReloadFrame(item playlist.Entry)
}

// LogRenderer "draws" to a logger; the headless player uses it.
type LogRenderer struct {
	Logger zerolog.Logger
}

func (r LogRenderer) State(s State) {
	r.Logger.Info().Str("state", s.String()).Msg("display state")
}

func (r LogRenderer) Show(index int, item playlist.Entry, transition models.Transition) {
	event := r.Logger.Info().
		Int("index", index).
		Str("media_id", item.ID).
		Str("name", item.Name).
		Str("kind", string(item.Kind())).
		Int("duration_s", item.Duration).
		Str("transition", string(transition))
	switch item.Kind() {
	case models.KindIframe:
		event = event.Str("url", EmbedURL(item.Src))
	case models.KindText:
		event = event.Str("content", item.Content)
	default:
		event = event.Str("src", item.Src)
	}
	if item.ShowFooter {
		event = event.Str("footer", item.FooterText1)
	}
	event.Msg("show")
}

func (r LogRenderer) ReloadFrame(item playlist.Entry) {
	r.Logger.Info().Str("media_id", item.ID).Msg("reload iframe")
}
