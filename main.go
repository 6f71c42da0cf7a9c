package main

import "document-chat/cmd"

func main() {
	cmd.Execute()
}
