package main

import "cotizador/internal/cli"

func main() {
	cli.Execute()
}
