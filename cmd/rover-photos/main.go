// Package main provides the rover-photos CLI.
//
// Usage:
//
//	rover-photos rover curiosity
//	rover-photos photos curiosity --sol 1000 --format markdown
//	rover-photos sync --once
//
// See --help for all available options.
package main

func main() {
	Execute()
}
