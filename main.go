package main

import "github.com/pixelcast/backend/cmd"

func main() {
	cmd.Execute()
}
