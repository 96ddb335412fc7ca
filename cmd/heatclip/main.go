package main

import "github.com/forPelevin/heatclip/internal/cli"

func main() {
	cli.Main()
}
