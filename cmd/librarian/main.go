package main

import "github.com/OpenTraceLab/librarian/cmd/librarian/cmd"

func main() {
	cmd.Execute()
}
