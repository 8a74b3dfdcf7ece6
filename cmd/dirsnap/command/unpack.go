package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/dirsnap/dirsnap"
)

const (
	UnpackDescription = "Reconstruct a directory tree from a .dsap archive"
	UnpackHelp        = UnpackDescription + "\n\n" +
		"Decompresses (auto-detected) and parses the archive, then writes\n" +
		"every entry under the destination directory. Entries that would\n" +
		"resolve outside the destination abort the whole extraction before\n" +
		"any file is written."
)

// Unpack represents the `unpack` command of the dirsnap cli tool.
type Unpack struct {
	KeyFile string `short:"k" long:"key" description:"PEM public key; verifies the detached .sig file before reading"`
	Workers int    `long:"workers" description:"Concurrent file writes, <2 writes serially"`
	Verbose bool   `short:"v" long:"verbose" description:"Log progress to stderr"`

	Args struct {
		Archive string `positional-arg-name:"archive" required:"true" description:"Archive file to unpack"`
		Dest    string `positional-arg-name:"dest" description:"Destination directory, defaults to the archive name without extension"`
	} `positional-args:"true"`
}

// Execute runs the unpack command, honoring the go-flags.Commander interface.
func (c *Unpack) Execute(args []string) error {
	dest := c.Args.Dest
	if dest == "" {
		dest = strings.TrimSuffix(c.Args.Archive, ".dsap")
		if dest == c.Args.Archive {
			dest = c.Args.Archive + ".out"
		}
	}

	var readOpts []dirsnap.ReadOption
	if c.KeyFile != "" {
		pub, err := dirsnap.ReadPublicKey(c.KeyFile)
		if err != nil {
			return err
		}
		readOpts = append(readOpts, dirsnap.ReadWithVerifyKey(pub))
	}

	archive, err := dirsnap.ReadFile(c.Args.Archive, readOpts...)
	if err != nil {
		return err
	}

	extractOpts := []dirsnap.ExtractOption{
		dirsnap.ExtractWithWorkers(c.Workers),
	}
	if c.Verbose {
		extractOpts = append(extractOpts, dirsnap.ExtractWithLogger(stderrLogger()))
	}

	if err := dirsnap.Extract(context.Background(), archive, dest, extractOpts...); err != nil {
		return err
	}

	fmt.Printf("unpacked %d files into %s\n", len(archive.Entries), dest)
	return nil
}
