package main

import "github.com/zeadev/zeacontrol/cmd"

func main() {
	cmd.Execute()
}
