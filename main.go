package main

import "github.com/FredworkLemmas/ozwald-sub000/cmd/ozwald"

// Version can be set during build with -ldflags
var version = "dev"

func main() {
	cmd.SetVersion(version)
	cmd.Execute()
}
