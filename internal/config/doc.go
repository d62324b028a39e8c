// Package config loads, normalizes, and validates genforge configuration.
//
// Configuration is TOML with a layered resolution order: an explicit path,
// ~/.config/genforge/config.toml, then ./genforge.toml. Defaults fill any
// missing values so a bare install runs without a config file. Path fields
// are tilde-expanded and made absolute during normalization.
package config
