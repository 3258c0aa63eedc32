package main

import "github.com/maxfetch/maxfetch/cmd/maxfetch/cmd"

func main() {
	cmd.Execute()
}
