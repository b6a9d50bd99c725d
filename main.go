package main

import "github.com/ValentinKolb/tinycfg/cmd"

func main() {
	cmd.Execute()
}
