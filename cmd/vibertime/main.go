package main

import "github.com/mkidding/vibertime/internal/cli"

func main() {
	cli.Execute()
}
