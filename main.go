package main

import "github.com/mementoweb/robustlinks/cmd"

func main() {
	cmd.Execute()
}
