package main

import "github.com/samsaffron/oatmeal/cmd"

func main() {
	cmd.Execute()
}
