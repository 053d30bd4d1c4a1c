package main

import "github.com/mvp-joe/ccconv/internal/cli"

func main() {
	cli.Execute()
}
