package main

import "github.com/workpunch/punch/cmd"

func main() {
	cmd.Execute()
}
