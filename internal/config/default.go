package config

import _ "embed"

// DefaultFileName is the file written by `sketch new`.
const DefaultFileName = "sketch.yaml"

//go:embed default.yaml
var defaultConfig []byte

// Default returns the starter configuration written by `sketch new`.
func Default() []byte {
	return append([]byte(nil), defaultConfig...)
}
