package main

import "github.com/llehouerou/simple-osd/cmd"

func main() {
	cmd.Execute()
}
