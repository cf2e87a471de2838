package main

import "github.com/mcoot/auctionhouse/internal/cli"

func main() {
	cli.Execute()
}
