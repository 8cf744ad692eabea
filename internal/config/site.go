package config

// SiteConfig holds site-specific configuration for a single domain.
// This allows customizing crawl behavior per site, e.g. extra headers
// a staging environment requires or paths known to be noise.
type SiteConfig struct {
	// Headers are custom HTTP headers to include in requests to this
	// site, on top of the session fingerprint headers.
	Headers map[string]string `yaml:"headers,omitempty"`

	// MaxPages overrides the global page budget for this site.
	// If zero, the global MaxPages is used.
	MaxPages int `yaml:"maxPages,omitempty"`

	// IgnorePatterns are URL substrings to skip during crawling.
	IgnorePatterns []string `yaml:"ignorePatterns,omitempty"`
}

// File represents the structure of the .sitescan configuration file.
type File struct {
	// Sites maps domains to their site-specific configurations.
	// Keys are bare domains without protocol (e.g., "example.com").
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`

	// Defaults contains default site configuration applied to all sites
	// unless overridden in the site-specific configuration.
	Defaults SiteConfig `yaml:"defaults,omitempty"`
}

// GetSiteConfig returns the configuration for a specific domain.
// It merges the site-specific configuration with defaults.
func (cf *File) GetSiteConfig(domain string) SiteConfig {
	result := cf.Defaults

	if siteConfig, ok := cf.Sites[domain]; ok {
		if siteConfig.MaxPages != 0 {
			result.MaxPages = siteConfig.MaxPages
		}
		if len(siteConfig.Headers) > 0 {
			// Fresh map: result.Headers still aliases the defaults map
			// after the struct copy above.
			merged := make(map[string]string, len(cf.Defaults.Headers)+len(siteConfig.Headers))
			for k, v := range cf.Defaults.Headers {
				merged[k] = v
			}
			for k, v := range siteConfig.Headers {
				merged[k] = v
			}
			result.Headers = merged
		}
		if len(siteConfig.IgnorePatterns) > 0 {
			result.IgnorePatterns = siteConfig.IgnorePatterns
		}
	}

	return result
}
