package main

import "github.com/ernesto27/typeadd/cmd"

func main() {
	cmd.Execute()
}
