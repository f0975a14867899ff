package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/df07/go-pathtrace/web/server"
)

func main() {
	port := flag.Int("port", 8080, "Port to serve on")
	staticDir := flag.String("static", "web/static", "Directory with the viewer frontend")
	flag.Parse()

	webServer := server.NewServer(*staticDir, nil)

	log.Printf("Path Tracer Web Server")
	log.Printf("Visit http://localhost:%d to start rendering", *port)

	if err := webServer.Start(fmt.Sprintf(":%d", *port)); err != nil {
		log.Printf("Error starting server: %v", err)
		os.Exit(1)
	}
}
