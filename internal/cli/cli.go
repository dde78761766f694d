package cli

import (
	"os"

	"github.com/microsoft/caserun/internal/cli/list"
	"github.com/microsoft/caserun/internal/cli/run"

	"github.com/alecthomas/kong"
	log "github.com/sirupsen/logrus"
)

type GlobalOpts struct {
	Verbosity   log.Level `short:"v" help:"Set log level" default:"info"`
	AzureDevops bool      `short:"a" help:"Enable Azure DevOps integration" env:"TF_BUILD"`
	Config      string    `short:"c" help:"YAML file with default settings for this suite" type:"existingfile"`
}

type cli struct {
	Global GlobalOpts   `embed:""`
	List   list.ListCmd `cmd:"" help:"List registered test cases"`
	Run    run.RunCmd   `cmd:"" help:"Run test cases"`
}

func ParseCommandLine(name string) (*kong.Context, GlobalOpts) {
	// Force display help if no arguments are provided
	if len(os.Args) < 2 {
		os.Args = append(os.Args, "--help")
	}

	cli := cli{}
	ctx := kong.Parse(&cli, kong.Name(name))
	return ctx, cli.Global
}

// NewParser builds the parser of the suite command line without parsing
// anything, so that callers can drive it with their own arguments.
func NewParser(name string, options ...kong.Option) (*kong.Kong, *GlobalOpts, error) {
	cli := &cli{}
	parser, err := kong.New(cli, append([]kong.Option{kong.Name(name)}, options...)...)
	if err != nil {
		return nil, nil, err
	}

	return parser, &cli.Global, nil
}
