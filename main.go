package main

import "doc-vault/cmd"

func main() {
	cmd.Execute()
}
