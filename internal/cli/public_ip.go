package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mrlokans/library/internal/config"
	"github.com/mrlokans/library/internal/publicip"
)

// PublicIPCommand prints the host the API documentation advertises.
type PublicIPCommand struct {
	MetadataURL string

	stdout    io.Writer
	newConfig func() (*config.Config, error)
}

func NewPublicIPCommand() *PublicIPCommand {
	return &PublicIPCommand{
		stdout:    os.Stdout,
		newConfig: config.NewConfig,
	}
}

func (cmd *PublicIPCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("public-ip", flag.ContinueOnError)

	fs.StringVar(&cmd.MetadataURL, "metadata-url", publicip.DefaultMetadataURL, "EC2 instance metadata endpoint")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s public-ip [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Resolve the docs host for the current environment (APP_ENV).\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

func (cmd *PublicIPCommand) Run(ctx context.Context) error {
	cfg, err := cmd.newConfig()
	if err != nil {
		return err
	}

	host := publicip.ResolveHost(ctx, cfg, publicip.NewClient(cmd.MetadataURL))
	_, err = fmt.Fprintln(cmd.stdout, host)
	return err
}
