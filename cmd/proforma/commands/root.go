package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"proforma_engine/pkg/core/engine"
	"proforma_engine/pkg/core/proforma"
)

// ConfigEnv names the environment variable holding the default --config path.
const ConfigEnv = "PROFORMA_CONFIG"

// session is the state shared by every subcommand of one invocation.
type session struct {
	configPath string
	file       string
	query      string
	compact    bool

	calc *engine.Calculator
	pf   *proforma.ProForma
}

func Execute() error {
	return NewRootCommand().Execute()
}

// NewRootCommand builds the command tree. Each call returns an independent
// tree, so tests can run commands side by side.
func NewRootCommand() *cobra.Command {
	s := &session{}

	root := &cobra.Command{
		Use:           "proforma",
		Short:         "Real-estate development pro forma engine",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return s.setup(cmd)
		},
	}

	root.PersistentFlags().StringVar(&s.configPath, "config", "", "engine config YAML (default $"+ConfigEnv+")")
	root.PersistentFlags().StringVarP(&s.file, "file", "f", "", `pro forma JSON or Hjson ("-" for stdin; default built-in example)`)
	root.PersistentFlags().StringVarP(&s.query, "query", "q", "", "JSONPath applied to the output envelope (e.g. $.result.projectIrr)")
	root.PersistentFlags().BoolVar(&s.compact, "compact", false, "print JSON on one line")

	root.AddCommand(
		exampleCmd(s),
		validateCmd(s),
		metricsCmd(s),
		cashflowCmd(s),
		amortizeCmd(s),
		waterfallCmd(s),
		sensitivityCmd(s),
		analyzeCmd(s),
		reportCmd(s),
	)
	return root
}

// setup loads .env, the engine config and the pro forma.
func (s *session) setup(cmd *cobra.Command) error {
	if err := godotenv.Load(); err == nil {
		logf(cmd, "[CONFIG] Loaded .env")
	}

	if s.configPath == "" {
		s.configPath = os.Getenv(ConfigEnv)
	}
	cfg := engine.DefaultConfig()
	if s.configPath != "" {
		loaded, err := engine.LoadConfig(s.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
		logf(cmd, "[CONFIG] Engine config from %s", s.configPath)
	}
	s.calc = engine.New(cfg)

	switch s.file {
	case "":
		s.pf = proforma.Example()
		logf(cmd, "[PROFORMA] No --file given; using the built-in example")
	case "-":
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		pf, err := proforma.Decode(data)
		if err != nil {
			return err
		}
		s.pf = pf
	default:
		pf, err := proforma.LoadFile(s.file)
		if err != nil {
			return err
		}
		s.pf = pf
	}
	return nil
}

func logf(cmd *cobra.Command, format string, args ...interface{}) {
	fmt.Fprintf(cmd.ErrOrStderr(), format+"\n", args...)
}
