package main

import "resym/internal/cli"

func main() {
	cli.Execute()
}
