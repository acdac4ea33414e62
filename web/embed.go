// Package web embeds the compiled front-end application.
//
// The dist directory is the output of the front-end build (`yarn run build`
// in the application project) and must be populated before `go build`. The
// "all:" prefix keeps dotfiles emitted by the bundler.
package web

import "embed"

//go:embed all:dist
var content embed.FS

// DistDir is the directory inside content that holds the build output.
const DistDir = "dist"

// Content returns the embedded file system; the build output lives under DistDir.
func Content() embed.FS {
	return content
}
