package main

import "github.com/hemzaz/tugboat/cmd"

func main() {
	cmd.Execute()
}
