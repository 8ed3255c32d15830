package main

import "newsclassifier/cmd"

func main() {
	cmd.Execute()
}
