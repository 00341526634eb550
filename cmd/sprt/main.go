package main

import "github.com/robinbaebae/sprt/internal/cmd"

func main() {
	cmd.Execute()
}
