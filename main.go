package main

import "github.com/zalepa/orderdesk/cmd"

func main() {
	cmd.Execute()
}
