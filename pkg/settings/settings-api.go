package settings

import (
	"github.com/huandu/go-clone"
)

// APISettings holds per-provider credentials and base URL overrides, keyed
// by "{provider}-api-key" and "{provider}-base-url".
type APISettings struct {
	APIKeys  map[string]string `yaml:"api_keys,omitempty" json:"api_keys,omitempty"`
	BaseUrls map[string]string `yaml:"base_urls,omitempty" json:"base_urls,omitempty"`
}

func NewAPISettings() *APISettings {
	return &APISettings{
		APIKeys:  map[string]string{},
		BaseUrls: map[string]string{},
	}
}

func (s *APISettings) Clone() *APISettings {
	return clone.Clone(s).(*APISettings)
}
