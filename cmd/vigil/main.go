package main

import "vigil/internal/cli"

func main() {
	cli.Execute()
}
