package main

import "clinic/cmd"

func main() {
	cmd.Execute()
}
