package main

import "github.com/nfrund/statebus/cmd/statebus/cmd"

func main() {
	cmd.Execute()
}
