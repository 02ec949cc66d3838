package main

import "github.com/oshokin/mq-update/cmd/mq-update/cmd"

func main() {
	cmd.Execute()
}
