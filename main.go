package main

import "github.com/theirongolddev/budgetmon/cmd"

func main() {
	cmd.Execute()
}
