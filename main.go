package main

import "thoreinstein.com/sdbh/cmd"

func main() {
	cmd.Execute()
}
