// Copyright © 2018 The ELPS authors

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/pprof"

	"github.com/spf13/cobra"
	"github.com/tanndlin/tanscript/lang"
	"github.com/tanndlin/tanscript/lang/x/profiler"
)

var (
	runExpression bool
	runPrint      bool
	runTrace      bool
	runTraceAPI   string
	runCallgrind  string
	runCPUProfile string
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [flags] files...",
	Short: "Run TanScript programs",
	Long: `Run TanScript programs supplied via the command line or files.

All programs run in the same root scope, in order, so later programs see
the globals, functions and signals of earlier ones.  Arguments ending in
"/..." expand to every .tan file below the directory.

Examples:
  tanscript run main.tan
  tanscript run -e 'let x = 20;' 'print(x * 2 + 2);'
  tanscript run -p -e '[1, 2] + [3];'
  tanscript run -O --trace fib.tan
  tanscript run --callgrind callgrind.out fib.tan`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		os.Exit(runPrograms(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), args))
	},
}

type program struct {
	name   string
	source string
}

func runReadPrograms(args []string) ([]program, error) {
	if runExpression {
		progs := make([]program, len(args))
		for i := range args {
			progs[i] = program{name: fmt.Sprintf("expr%d", i+1), source: args[i]}
		}
		return progs, nil
	}
	paths, err := expandArgs(args, nil)
	if err != nil {
		return nil, err
	}
	progs := make([]program, len(paths))
	for i, path := range paths {
		b, err := os.ReadFile(path) //nolint:gosec // CLI tool reads user-specified files
		if err != nil {
			return nil, err
		}
		progs[i] = program{name: path, source: string(b)}
	}
	return progs, nil
}

// runPrograms evaluates the programs named by args and returns the process
// exit code.
func runPrograms(ctx context.Context, stdout, stderr io.Writer, args []string) int {
	progs, err := runReadPrograms(args)
	if err != nil {
		fmt.Fprintln(stderr, err) //nolint:errcheck // best-effort error display
		return 2
	}

	s, err := newScope(stdout, stderr, lang.WithContext(ctx))
	if err != nil {
		fmt.Fprintln(stderr, err) //nolint:errcheck // best-effort error display
		return 2
	}
	stop, err := startProfiler(ctx, s.Runtime)
	if err != nil {
		fmt.Fprintln(stderr, err) //nolint:errcheck // best-effort error display
		return 2
	}
	defer stop()

	sources := make(map[string]string, len(progs))
	for _, prog := range progs {
		sources[prog.name] = prog.source
		log.Infof("running %s", prog.name)
		v, err := s.LoadString(prog.name, prog.source)
		if err != nil {
			renderError(stderr, err, sources)
			return 1
		}
		if runPrint && !v.IsVoid() {
			fmt.Fprintln(stdout, v.Repr()) //nolint:errcheck // best-effort output
		}
	}
	log.Infof("evaluated %d steps", s.Runtime.Steps())
	return 0
}

// startProfiler attaches the profiler selected on the command line to rt.
// The returned function completes the profile.
func startProfiler(ctx context.Context, rt *lang.Runtime) (func(), error) {
	var selected int
	for _, on := range []bool{runTrace, runCallgrind != "", runCPUProfile != ""} {
		if on {
			selected++
		}
	}
	switch {
	case selected > 1:
		return nil, errors.New("only one of --trace, --callgrind and --cpuprofile may be given")
	case runTrace:
		stopTracing, err := startTracing(runTraceAPI)
		if err != nil {
			return nil, err
		}
		var p lang.Profiler
		if runTraceAPI == traceOpenCensus {
			p = profiler.NewOpenCensusAnnotator(rt, ctx)
		} else {
			p = profiler.NewOpenTelemetryAnnotator(rt, ctx)
		}
		if err := p.Enable(); err != nil {
			stopTracing()
			return nil, err
		}
		return func() {
			_ = p.Complete()
			stopTracing()
		}, nil
	case runCallgrind != "":
		p := profiler.NewCallgrindProfiler(rt, nil)
		if err := p.SetFile(runCallgrind); err != nil {
			return nil, err
		}
		if err := p.Enable(); err != nil {
			return nil, err
		}
		return func() {
			if err := p.Complete(); err != nil {
				log.Errorf("callgrind profile: %v", err)
			}
		}, nil
	case runCPUProfile != "":
		f, err := os.Create(runCPUProfile) //nolint:gosec // CLI tool writes user-specified files
		if err != nil {
			return nil, err
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			_ = f.Close()
			return nil, err
		}
		p := profiler.NewPprofAnnotator(rt, ctx)
		if err := p.Enable(); err != nil {
			pprof.StopCPUProfile()
			_ = f.Close()
			return nil, err
		}
		return func() {
			_ = p.Complete()
			pprof.StopCPUProfile()
			if err := f.Close(); err != nil {
				log.Errorf("cpu profile: %v", err)
			}
		}, nil
	default:
		return func() {}, nil
	}
}

func init() {
	rootCmd.AddCommand(runCmd)

	// Here flags for the run command are defined
	runCmd.Flags().BoolVarP(&runExpression, "expression", "e", false,
		"Interpret arguments as TanScript programs")
	runCmd.Flags().BoolVarP(&runPrint, "print", "p", false,
		"Print the value of each program to stdout")
	runCmd.Flags().BoolVar(&runTrace, "trace", false,
		"Log a trace span for each function call")
	runCmd.Flags().StringVar(&runTraceAPI, "trace-api", traceOpenTelemetry,
		"Tracing API used by --trace (opentelemetry or opencensus)")
	runCmd.Flags().StringVar(&runCallgrind, "callgrind", "",
		"Write a Callgrind profile of function calls to `file`")
	runCmd.Flags().StringVar(&runCPUProfile, "cpuprofile", "",
		"Write a CPU profile labeled by function to `file`")
}
