// Package config handles application configuration loading and validation.
//
// Configuration is loaded from config.yml and validated using struct tags.
// Besides server and logging settings it carries drawing defaults, which fill
// the optional fields a request leaves out.
package config
