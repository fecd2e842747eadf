package main

import "github.com/jcdickinson/uiuadoc/cmd"

func main() {
	cmd.Execute()
}
