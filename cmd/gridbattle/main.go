package main

import "github.com/mcoot/gridbattle/internal/cli"

func main() {
	cli.Execute()
}
