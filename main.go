package main

import "github.com/alexiusacademia/opsrun/cmd"

func main() {
	cmd.Execute()
}
