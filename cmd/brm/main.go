package main

import "github.com/imamaawais/Boolean-Retrieval-Model/internal/cli"

func main() {
	cli.Execute()
}
