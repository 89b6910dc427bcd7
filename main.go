// main.go
package main

import "github.com/artiops/artifactory-automation/cmd"

func main() {
	cmd.Execute()
}
