package main

import "github.com/KaramelBytes/paradox-cli/cmd"

func main() {
	cmd.Execute()
}
