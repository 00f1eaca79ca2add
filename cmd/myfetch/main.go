package main

import "github.com/Dicklesworthstone/myfetch/internal/cli"

func main() {
	cli.Execute()
}
