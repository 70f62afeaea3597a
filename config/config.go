package config

import "os"

const DefaultRegistryPageURL = "https://www.npmjs.com/package/"

type Config struct {
	// RegistryPageURL is the base URL of the registry's package pages,
	// the HTML pages scanned for the built-in declarations banner.
	RegistryPageURL string

	// PackageManager forces a specific package manager instead of
	// detecting one from lockfiles. Empty means detect.
	PackageManager string
}

func New() *Config {
	// Allow overriding the registry host via environment variable (useful for testing)
	registryURL := os.Getenv("TYPEADD_REGISTRY")
	if registryURL == "" {
		registryURL = DefaultRegistryPageURL
	}

	return &Config{
		RegistryPageURL: registryURL,
		PackageManager:  os.Getenv("TYPEADD_PM"),
	}
}
