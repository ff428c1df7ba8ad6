package main

import "github.com/Beastly713/shadowshare/cmd"

func main() {
	cmd.Execute()
}
