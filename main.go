package main

import "github.com/leizi-shell/leizi/cmd"

func main() {
	cmd.Execute()
}
