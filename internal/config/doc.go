// Package config loads, normalizes, and validates vidpub configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the VIDPUB_CREDENTIALS environment
// override. Upload defaults such as the publish method, clock time, privacy and
// category are parsed during validation so a broken config file fails before
// any network or file work starts.
package config
