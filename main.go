package main

import "github.com/tayloree/storefront/cmd"

func main() {
	cmd.Execute()
}
