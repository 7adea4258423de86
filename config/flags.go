package config

import "flag"

// Overrides collects the flags explicitly set on fs and maps them to config
// keys through keys (flag name -> dotted key). Unset flags are left to the
// file, environment and defaults.
func Overrides(fs *flag.FlagSet, keys map[string]string) map[string]string {
	out := make(map[string]string)
	fs.Visit(func(f *flag.Flag) {
		if key, ok := keys[f.Name]; ok {
			out[key] = f.Value.String()
		}
	})
	return out
}

// LogFlags registers the logging flags shared by both commands and returns
// their key mapping.
func LogFlags(fs *flag.FlagSet, d LogConfig) map[string]string {
	fs.String("log-level", d.Level, "Log level: debug, info, warn, error")
	fs.String("log-format", d.Format, "Diagnostics format: text or json")
	fs.String("render", d.Render, "Payload rendering: bytes, text or hex")
	fs.String("log-file", d.File, "Optional rotated log file")
	return map[string]string{
		"log-level":  "log.level",
		"log-format": "log.format",
		"render":     "log.render",
		"log-file":   "log.file",
	}
}
