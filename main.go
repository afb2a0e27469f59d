package main

import "github.com/tanq16/stitch/cmd"

func main() {
	cmd.Execute()
}
