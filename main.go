package main

import "github.com/ryan-gang/mail-blast/cmd"

func main() {
	cmd.Execute()
}
