package main

import "github.com/Alijeyrad/klinik_backend/cmd"

func main() {
	cmd.Execute()
}
