package main

import "audiodeck/cmd"

func main() {
	cmd.Execute()
}
