package main

import "github.com/ubuntu-spins/spindex/cmd"

func main() {
	cmd.Execute()
}
