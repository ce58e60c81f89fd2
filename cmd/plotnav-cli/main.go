package main

import "plotnav/cmd/plotnav-cli/cmd"

func main() {
	cmd.Execute()
}
