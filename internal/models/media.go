package models

import (
	"strings"
	"time"
)

// Literal media types for non-file content.
const (
	MediaTypeIframe = "Iframe"
	MediaTypeText   = "Text"
)

// MaxIframeReloadMinutes caps iframeReloadInterval at one week.
const MaxIframeReloadMinutes = 7 * 24 * 60

// MediaKind is the coarse class of a media item used for filtering.
type MediaKind string

const (
	KindImage  MediaKind = "image"
	KindVideo  MediaKind = "video"
	KindIframe MediaKind = "iframe"
	KindText   MediaKind = "text"
	KindOther  MediaKind = "other"
)

// MediaItem is one entry of the media library.
type MediaItem struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Type       string `json:"type"`
	Src        string `json:"src,omitempty"`
	Content    string `json:"content,omitempty"`
	SubContent string `json:"subContent,omitempty"`
	BgColor    string `json:"bgColor,omitempty"`
	DataAIHint string `json:"dataAiHint,omitempty"`
	Date       string `json:"date"`

	ShowFooter     bool   `json:"showFooter,omitempty"`
	FooterText1    string `json:"footerText1,omitempty"`
	FooterText2    string `json:"footerText2,omitempty"`
	FooterBgColor  string `json:"footerBgColor,omitempty"`
	FooterImageSrc string `json:"footerImageSrc,omitempty"`

	IframeNoReload bool `json:"iframeNoReload,omitempty"`
	// IframeReloadInterval is in minutes; zero disables the reload timer.
	IframeReloadInterval float64 `json:"iframeReloadInterval,omitempty" validate:"gte=0,lte=10080"`
}

func (m MediaItem) Kind() MediaKind {
	switch {
	case m.Type == MediaTypeIframe:
		return KindIframe
	case m.Type == MediaTypeText:
		return KindText
	case strings.HasPrefix(m.Type, "image/"):
		return KindImage
	case strings.HasPrefix(m.Type, "video/"):
		return KindVideo
	}
	return KindOther
}

// ReloadsItself reports whether a visible iframe should be refreshed on its own timer.
func (m MediaItem) ReloadsItself() bool {
	return m.Kind() == KindIframe && !m.IframeNoReload && m.ReloadEvery() > 0
}

// ReloadEvery is the iframe reload period. Stored values above
// MaxIframeReloadMinutes are clamped; intervals under a nanosecond yield 0.
func (m MediaItem) ReloadEvery() time.Duration {
	minutes := min(m.IframeReloadInterval, MaxIframeReloadMinutes)
	if !(minutes > 0) {
		return 0
	}
	return time.Duration(minutes * float64(time.Minute))
}

// MediaPatch carries the fields of an UPDATE_MEDIA request; nil fields are left untouched.
type MediaPatch struct {
	Name                 *string  `json:"name"`
	Type                 *string  `json:"type"`
	Src                  *string  `json:"src"`
	Content              *string  `json:"content"`
	SubContent           *string  `json:"subContent"`
	BgColor              *string  `json:"bgColor"`
	DataAIHint           *string  `json:"dataAiHint"`
	Date                 *string  `json:"date"`
	ShowFooter           *bool    `json:"showFooter"`
	FooterText1          *string  `json:"footerText1"`
	FooterText2          *string  `json:"footerText2"`
	FooterBgColor        *string  `json:"footerBgColor"`
	FooterImageSrc       *string  `json:"footerImageSrc"`
	IframeNoReload       *bool    `json:"iframeNoReload"`
	IframeReloadInterval *float64 `json:"iframeReloadInterval" validate:"omitempty,gte=0,lte=10080"`
}

// Apply merges the patch into m.
func (p MediaPatch) Apply(m *MediaItem) {
	setString(&m.Name, p.Name)
	setString(&m.Type, p.Type)
	setString(&m.Src, p.Src)
	setString(&m.Content, p.Content)
	setString(&m.SubContent, p.SubContent)
	setString(&m.BgColor, p.BgColor)
	setString(&m.DataAIHint, p.DataAIHint)
	setString(&m.Date, p.Date)
	setString(&m.FooterText1, p.FooterText1)
	setString(&m.FooterText2, p.FooterText2)
	setString(&m.FooterBgColor, p.FooterBgColor)
	setString(&m.FooterImageSrc, p.FooterImageSrc)
	if p.ShowFooter != nil {
		m.ShowFooter = *p.ShowFooter
	}
	if p.IframeNoReload != nil {
		m.IframeNoReload = *p.IframeNoReload
	}
	if p.IframeReloadInterval != nil {
		m.IframeReloadInterval = *p.IframeReloadInterval
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
