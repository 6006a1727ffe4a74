package main

import "github.com/moshez/Pomodouroboros/cmd"

func main() {
	cmd.Execute()
}
