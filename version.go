package moore

import _ "embed"

// Version is the release version of the module, embedded from the VERSION file.
//
//go:embed VERSION
var Version string
