package main

import "github.com/quantic-msse0726/policy-rag-app/internal/cli"

func main() {
	cli.Execute()
}
