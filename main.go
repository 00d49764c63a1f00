package main

import (
	"log"

	"bookwise/core/server"
)

func main() {
	if err := server.Run(); err != nil {
		log.Fatal("run server error: ", err)
	}
}
