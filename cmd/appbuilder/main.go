// Command appbuilder generates Django backends from JSON schema documents.
package main

import (
	"os"

	"github.com/matthewbaird/appbuilder/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
