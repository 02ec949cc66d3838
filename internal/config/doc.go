// Package config defines optional updater settings and provides helpers to
// load, validate and save them in YAML format.
//
// The Config type holds the registry API base URL, the HTTP timeout, the
// default install directory and user-defined binary family entries. All
// fields default sensibly, so running without a settings file is supported.
package config
