// Command tforge scaffolds projects from YAML-like spec documents.
package main

import "github.com/srtdog64/TemplateForge/cmd"

func main() {
	cmd.Execute()
}
