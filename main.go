package main

import "github.com/frahmantamala/billed/cmd"

func main() {
	cmd.Execute()
}
