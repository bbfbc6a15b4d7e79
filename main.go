package main

import "nfogen/cmd"

func main() {
	cmd.Execute()
}
