// sensormock CLI - mock HTTP telemetry device
package main

import "github.com/getmockd/sensormock/pkg/cli"

func main() {
	cli.Execute()
}
