package command

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dirsnap/dirsnap"
)

const (
	InspectDescription = "List the contents of a .dsap archive"
	InspectHelp        = InspectDescription + "\n\n" +
		"Parses the archive without touching the filesystem and prints one\n" +
		"line per entry: size, MIME type and path, in archive order."
)

// Inspect represents the `inspect` command of the dirsnap cli tool.
type Inspect struct {
	Args struct {
		Archive string `positional-arg-name:"archive" required:"true" description:"Archive file to inspect"`
	} `positional-args:"true"`
}

// Execute runs the inspect command, honoring the go-flags.Commander interface.
func (c *Inspect) Execute(args []string) error {
	archive, err := dirsnap.ReadFile(c.Args.Archive)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "SIZE\tMIME\tPATH\n")
	var total uint64
	for i := range archive.Entries {
		e := &archive.Entries[i]
		fmt.Fprintf(w, "%d\t%s\t%s\n", e.Size, e.MIMEType, e.Path)
		total += uint64(e.Size)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nversion %d, %d entries, %d content bytes\n",
		archive.Version, len(archive.Entries), total)
	return nil
}
