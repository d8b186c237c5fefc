// Command flexctl builds, inspects, and extracts values from FlexBuffers
// documents on disk.
package main

import "github.com/datatrails/go-datatrails-flexbuffers/cmd/flexctl/cmd"

func main() {
	cmd.Execute()
}
