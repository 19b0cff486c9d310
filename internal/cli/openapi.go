package cli

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mrlokans/library/internal/openapi"
	"github.com/mrlokans/library/internal/publicip"
)

type OpenAPICommand struct {
	Host   string
	Port   int
	Output string

	stdout io.Writer
}

func NewOpenAPICommand() *OpenAPICommand {
	return &OpenAPICommand{stdout: os.Stdout}
}

func (cmd *OpenAPICommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("openapi", flag.ContinueOnError)

	fs.StringVar(&cmd.Host, "host", publicip.LoopbackHost, "Host written into the server URL")
	fs.IntVar(&cmd.Port, "port", 80, "Port written into the server URL")
	fs.StringVar(&cmd.Output, "o", "", "Write the document to this file instead of stdout")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s openapi [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Print the OpenAPI document of the books API.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.Port <= 0 || cmd.Port > 65535 {
		return fmt.Errorf("invalid port %d", cmd.Port)
	}
	return nil
}

func (cmd *OpenAPICommand) Run() error {
	document, err := openapi.Build(openapi.Info{Host: cmd.Host, Port: cmd.Port})
	if err != nil {
		return err
	}

	if cmd.Output != "" {
		if err := os.WriteFile(cmd.Output, append(document, '\n'), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", cmd.Output, err)
		}
		return nil
	}

	_, err = fmt.Fprintln(cmd.stdout, string(document))
	return err
}
