package main

import "github.com/moyu-x/media-dedup/cmd"

func main() {
	cmd.Execute()
}
