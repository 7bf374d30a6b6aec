package main

import "github.com/KaramelBytes/agenthub-cli/cmd"

func main() {
	cmd.Execute()
}
