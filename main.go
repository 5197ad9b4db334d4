package main

import "github.com/frahmantamala/team-management/cmd"

func main() {
	cmd.Execute()
}
