package main

import "snekctl/internal/cli"

func main() {
	cli.Execute()
}
