package command

import (
	"fmt"

	"github.com/dirsnap/dirsnap"
)

const (
	KeygenDescription = "Generate an Ed25519 key pair for archive signing"
	KeygenHelp        = KeygenDescription + "\n\n" +
		"Writes <name>.key (private, mode 0600) and <name>.pub (public)\n" +
		"as PEM files."
)

// Keygen represents the `keygen` command of the dirsnap cli tool.
type Keygen struct {
	Args struct {
		Name string `positional-arg-name:"name" required:"true" description:"Base name for the key files"`
	} `positional-args:"true"`
}

// Execute runs the keygen command, honoring the go-flags.Commander interface.
func (c *Keygen) Execute(args []string) error {
	pub, priv, err := dirsnap.GenerateKeyPair()
	if err != nil {
		return err
	}

	privPath := c.Args.Name + ".key"
	pubPath := c.Args.Name + ".pub"
	if err := dirsnap.WritePrivateKey(privPath, priv); err != nil {
		return err
	}
	if err := dirsnap.WritePublicKey(pubPath, pub); err != nil {
		return err
	}

	fmt.Printf("wrote %s and %s\n", privPath, pubPath)
	return nil
}
