package main

import "github.com/Skyenought/libstarter/cmd"

func main() {
	cmd.Execute()
}
