// Package config defines configuration for sitescan crawl runs.
package config
