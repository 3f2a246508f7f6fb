// Package main provides the entry point for the newsbrief CLI.
//
// newsbrief searches the web for a topic, reads the articles that
// robots.txt permits and prints a headline summary with source links.
//
// Usage:
//
//	newsbrief --query "electric vehicles" --articles 3
//
// See --help for all available options.
package main

// main is the entry point for newsbrief.
func main() {
	Execute()
}
