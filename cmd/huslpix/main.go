package main

import "github.com/MeKo-Tech/huslpix/internal/cmd"

func main() {
	cmd.Execute()
}
