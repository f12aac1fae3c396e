package main

import "github.com/nfrund/recipebox/cmd/recipebox/cmd"

func main() {
	cmd.Execute()
}
