package main

import "github.com/chriserin/apolog/cmd"

func main() {
	cmd.Execute()
}
