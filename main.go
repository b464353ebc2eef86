package main

import "github.com/Tiliavir/timesheet-grid/cmd"

func main() {
	cmd.Execute()
}
