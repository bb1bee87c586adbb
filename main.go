package main

import "scan-sync/cmd"

func main() {
	cmd.Execute()
}
