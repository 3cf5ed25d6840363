package main

import "vrmt-search/internal/cli"

func main() {
	cli.Execute()
}
