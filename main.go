package main

import (
	"github.com/itzcole03/sessionlens/cmd"
	"github.com/itzcole03/sessionlens/internal/logger"
)

func main() {
	defer logger.HandlePanic()
	cmd.Execute()
}
