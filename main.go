package main

import "github.com/campussrc/src-portal/cmd"

func main() {
	cmd.Execute()
}
