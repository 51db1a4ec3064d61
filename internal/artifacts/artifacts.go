package artifacts

import _ "embed"

// Default settings, installed when no settings file exists

//go:embed global/settings.yaml
var GlobalSettings []byte
