package main

import (
	"os"

	"github.com/dirsnap/dirsnap/cmd/dirsnap/command"

	"github.com/jessevdk/go-flags"
)

const name = "dirsnap"

func main() {
	parser := flags.NewNamedParser(name, flags.Default)

	parser.AddCommand("pack", command.PackDescription, command.PackHelp, &command.Pack{})
	parser.AddCommand("unpack", command.UnpackDescription, command.UnpackHelp, &command.Unpack{})
	parser.AddCommand("inspect", command.InspectDescription, command.InspectHelp, &command.Inspect{})
	parser.AddCommand("keygen", command.KeygenDescription, command.KeygenHelp, &command.Keygen{})
	parser.AddCommand("version", command.VersionDescription, command.VersionHelp, &command.Version{
		Name: name,
	})

	_, err := parser.Parse()
	if err != nil {
		if e, ok := err.(*flags.Error); ok && e.Type == flags.ErrCommandRequired {
			parser.WriteHelp(os.Stdout)
		}

		os.Exit(1)
	}
}
