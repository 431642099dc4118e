package main

import "github.com/liwenjun/go-jsonrpc/internal/cli"

func main() {
	cli.Execute()
}
