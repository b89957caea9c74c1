package main

import "github.com/hamamukku/reviewtrust-backend/internal/cmd"

func main() {
	cmd.Execute()
}
