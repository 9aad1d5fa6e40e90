// Copyright © 2018 The ELPS authors

package main

import "github.com/tanndlin/tanscript/cmd"

func main() {
	cmd.Execute()
}
