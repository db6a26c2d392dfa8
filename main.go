package main

import "github.com/wasched/wasched/cmd"

func main() {
	cmd.Execute()
}
