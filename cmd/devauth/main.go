package main

import "github.com/storagegate/devauth/cmd/devauth/cmd"

func main() {
	cmd.Execute()
}
