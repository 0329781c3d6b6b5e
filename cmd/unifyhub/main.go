package main

import (
	"os"

	"github.com/unifyhub/unifyhub/hubservice"
)

func main() {
	if err := hubservice.Run(); err != nil {
		os.Exit(1)
	}
}
