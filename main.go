package main

import "github.com/Mohsinsiddi/w3go/cmd"

func main() {
	cmd.Execute()
}
