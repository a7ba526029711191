package main

import (
	"beigebook/cmd/beigebook/commands"
	"beigebook/lib/serviceutil"
)

func main() {
	commands.ExecuteContext(serviceutil.SignalContext())
}
