package main

import "github.com/peekknuf/dataoverview/cmd"

func main() {
	cmd.Execute()
}
