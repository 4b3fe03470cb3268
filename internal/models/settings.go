package models

import "github.com/goccy/go-json"

// Settings are the global application switches.
type Settings struct {
	// EnableAnalytics gates every analytics and exposure write.
	EnableAnalytics bool `json:"enableAnalytics"`
}

func DefaultSettings() Settings {
	return Settings{EnableAnalytics: true}
}

// UnmarshalJSON keeps EnableAnalytics true when the key is absent.
func (s *Settings) UnmarshalJSON(data []byte) error {
	type alias Settings
	a := alias(DefaultSettings())
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*s = Settings(a)
	return nil
}

type SettingsPatch struct {
	EnableAnalytics *bool `json:"enableAnalytics"`
}

func (p SettingsPatch) Apply(s *Settings) {
	if p.EnableAnalytics != nil {
		s.EnableAnalytics = *p.EnableAnalytics
	}
}
