package static

import "embed"

//go:embed *.css *.js
var Content embed.FS
