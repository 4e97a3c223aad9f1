package main

import "github.com/amterp/tack/internal/cli"

func main() {
	cli.Run()
}
