// Package main is the single-binary entrypoint for Moodlift.
package main

import "github.com/moodlift/moodlift/internal/cli"

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cli.Execute(version)
}
