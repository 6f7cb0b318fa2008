package main

import "trading-agents-go/internal/cli"

func main() {
	cli.Execute()
}
