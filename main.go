package main

import "github.com/alethic/forumdigest/internal/cmd"

func main() {
	cmd.Execute()
}
