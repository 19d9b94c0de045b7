package main

import "bridgelog-cli/cmd"

func main() {
	cmd.Execute()
}
