// Command luarefgen writes the LuaRef call operator overloads to stdout.
package main

import (
	"os"

	"github.com/funvibe/luarefgen/pkg/cli"
)

func main() {
	os.Exit(cli.Execute())
}
