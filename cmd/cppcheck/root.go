package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/praveenmunagapati/cppcheck/internal/version"
	"github.com/praveenmunagapati/cppcheck/pkg/driver"
	"github.com/praveenmunagapati/cppcheck/pkg/logging"
	"github.com/praveenmunagapati/cppcheck/pkg/report"
	"github.com/praveenmunagapati/cppcheck/pkg/settings"
	"github.com/praveenmunagapati/cppcheck/pkg/suppress"
)

// setupFailureCode is the fixed exit status for setup errors: bad
// arguments, no input files, missing baseline configuration.
const setupFailureCode = 1

var (
	verbosity int
	cfg       = settings.Default()

	projectFile      string
	suppressions     []string
	suppressionsList string
	errorList        bool

	// exitCode is what main exits with after a successful Execute.
	exitCode int

	rootCmd = &cobra.Command{
		Use:   "cppcheck [paths...]",
		Short: "A tool for static C/C++ code analysis",
		Long: `cppcheck analyzes C/C++ sources without executing them and reports
defects the compiler does not see. Paths are expanded recursively; results
are printed as plain text or as versioned XML.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		Args:          cobra.ArbitraryArgs,
		RunE:          runCheck,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase log verbosity (-v INFO, -vv DEBUG, -vvv TRACE)")

	f := rootCmd.Flags()
	f.IntVarP(&cfg.Jobs, "jobs", "j", 1, "Number of analysis workers")
	f.BoolVarP(&cfg.Quiet, "quiet", "q", false, "Only print error messages")
	f.BoolVar(&cfg.XML, "xml", false, "Write results in XML format")
	f.IntVar(&cfg.XMLVersion, "xml-version", 1, "XML schema version (1 or 2)")
	f.IntVar(&cfg.ExitCode, "error-exitcode", 1, "Exit code to use when defects are found")
	f.BoolVar(&cfg.ExceptionHandling, "exception-handling", false, "Catch fatal faults and print a report before exiting")
	f.StringVar(&cfg.ExceptionOutput, "exception-output", "stderr", "Where fault reports go: stderr or stdout")
	f.StringArrayVarP(&cfg.IncludePaths, "include-dir", "I", nil, "Header search path")
	f.StringArrayVarP(&cfg.IgnoredPaths, "ignore", "i", nil, "Exclude files matching the given pattern")
	f.BoolVar(&cfg.ReportProgress, "report-progress", false, "Print throttled progress messages")
	f.BoolVar(&cfg.Verbose, "verbose-report", false, "Print the long form of diagnostic messages")
	f.BoolVar(&cfg.CheckConfiguration, "check-config", false, "Check the configuration, do not analyze")
	f.StringVar(&cfg.Enable, "enable", "", "Enable additional checks (comma separated)")
	f.StringVar(&cfg.ConfigDir, "config-dir", "", "Directory holding the baseline cfg files")
	f.BoolVar(&cfg.Standards.Posix, "posix", false, "Load the posix baseline library as well")

	f.StringVar(&projectFile, "project", "", "Load run settings from a project file (TOML or YAML)")
	f.StringArrayVar(&suppressions, "suppress", nil, "Suppress diagnostics matching id[:file[:line]]")
	f.StringVar(&suppressionsList, "suppressions-list", "", "File with one suppression per line")
	f.BoolVar(&errorList, "errorlist", false, "Print the catalog of all diagnostics and exit")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(manCmd)
	rootCmd.AddCommand(docsCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	if projectFile != "" {
		if err := settings.LoadProject(cfg, projectFile); err != nil {
			return err
		}
	}

	if errorList {
		driver.PrintErrorList(cfg, cmd.OutOrStdout())
		return nil
	}

	if len(args) == 0 {
		return fmt.Errorf("cppcheck: error: no paths given")
	}

	supps := suppress.New()
	for _, s := range suppressions {
		if err := supps.Parse(s); err != nil {
			return err
		}
	}
	if suppressionsList != "" {
		body, err := os.ReadFile(suppressionsList)
		if err != nil {
			return fmt.Errorf("cppcheck: error: couldn't open the file %q", suppressionsList)
		}
		if err := supps.ParseLines(string(body)); err != nil {
			return err
		}
	}

	sink := report.NewStdSink(cfg)
	code, err := driver.New(cfg, sink, supps).Run(args)
	if err != nil {
		return err
	}
	exitCode = code
	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("Cppcheck %s\n", version.Version)
		fmt.Printf("  commit: %s\n", version.Commit)
		fmt.Printf("  built:  %s\n", version.Date)
	},
}

var manCmd = &cobra.Command{
	Use:   "man",
	Short: "Generate man page",
	RunE: func(cmd *cobra.Command, args []string) error {
		header := &doc.GenManHeader{
			Title:   "CPPCHECK",
			Section: "1",
		}
		return doc.GenManTree(rootCmd, header, "/tmp")
	},
}
