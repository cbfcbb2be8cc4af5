package main

import "github.com/hydroqa/hmpi/cmd"

func main() {
	cmd.Execute()
}
