package main

import "github.com/tristendillon/geninterface/cmd"

func main() {
	cmd.Execute()
}
