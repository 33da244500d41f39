package main

import "github.com/ppartarr/reel/cmd"

func main() {
	cmd.Execute()
}
