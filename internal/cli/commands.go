package cli

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/specialistvlad/graphcompiler/internal/app"
	"github.com/specialistvlad/graphcompiler/internal/hub"
	"github.com/specialistvlad/graphcompiler/internal/registry"
	"github.com/specialistvlad/graphcompiler/internal/values"
)

// exactArgs is cobra.ExactArgs reporting a usage error.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return usageError("%v", err)
		}
		return nil
	}
}

func newCompileCommand(flags *globalFlags) *cobra.Command {
	var manifest bool

	cmd := &cobra.Command{
		Use:   "compile <path>",
		Short: "Compile a graph and print its schedule",
		Long: `Compile a graph description and print the execution order together with
the external inputs it reads and the outputs it produces.

Examples:
  graphc compile graph.json
  graphc compile graphs/ --manifest`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := flags.newApp(cmd, 0)
			if err != nil {
				return err
			}
			defer a.Close()

			p, err := a.Compile(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if manifest {
				data, err := sonic.ConfigStd.MarshalIndent(p.Manifest(), "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(out, string(data))
				return nil
			}

			fmt.Fprintf(out, "order:   %s\n", strings.Join(p.Order(), " -> "))
			fmt.Fprintf(out, "inputs:  %s\n", strings.Join(p.InputKeys(), ", "))
			fmt.Fprintf(out, "outputs: %s\n", strings.Join(p.OutputKeys(), ", "))
			return nil
		},
	}
	cmd.Flags().BoolVar(&manifest, "manifest", false, "Print the schedule manifest as JSON instead.")
	return cmd
}

func newRunCommand(flags *globalFlags) *cobra.Command {
	var (
		inputs []string
		format string
	)

	cmd := &cobra.Command{
		Use:   "run <path>",
		Short: "Compile a graph and execute it once",
		Long: `Compile a graph description and execute it against the given inputs.
Input values are HCL literals; anything else is read as a string.

Examples:
  graphc run graph.json --input a=2 --input b=3
  graphc run graph.hcl --input 'xs=[1, 2, 3]' --format hcl`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "json" && format != "hcl" {
				return usageError("unsupported output format %q (use 'json' or 'hcl')", format)
			}
			in, err := parseInputs(inputs)
			if err != nil {
				return usageError("%v", err)
			}

			a, err := flags.newApp(cmd, 0)
			if err != nil {
				return err
			}
			defer a.Close()

			outputs, err := a.Run(cmd.Context(), args[0], in)
			if err != nil {
				return err
			}

			var data []byte
			if format == "hcl" {
				data, err = values.EncodeHCL(outputs)
			} else {
				data, err = sonic.ConfigStd.MarshalIndent(outputs, "", "  ")
				data = append(data, '\n')
			}
			if err != nil {
				return fmt.Errorf("failed to encode outputs: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().StringArrayVarP(&inputs, "input", "i", nil, "External input as key=value. Repeatable.")
	cmd.Flags().StringVar(&format, "format", "json", "Output format: json or hcl.")
	return cmd
}

func newExportCommand(flags *globalFlags) *cobra.Command {
	var format, output string

	cmd := &cobra.Command{
		Use:   "export <path>",
		Short: "Export the pruned graph to a visualization format",
		Long: `Export the pruned graph to Mermaid or JSON. The JSON form includes the
execution order.

Examples:
  graphc export graph.json
  graphc export graph.json --format json --output graph.out.json`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := flags.newApp(cmd, 0)
			if err != nil {
				return err
			}
			defer a.Close()

			data, err := a.Export(cmd.Context(), args[0], format)
			if err != nil {
				return err
			}

			if output != "" {
				if err := os.WriteFile(output, data, 0644); err != nil {
					return fmt.Errorf("failed to write output file: %w", err)
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Graph exported to %s\n", output)
				return nil
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().StringVar(&format, "format", app.FormatMermaid, "Output format: mermaid or json.")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: stdout).")
	return cmd
}

func newAttachCommand(flags *globalFlags) *cobra.Command {
	var (
		opts            hub.Options
		healthcheckPort int
	)

	cmd := &cobra.Command{
		Use:   "attach",
		Short: "Serve evaluate requests from an editor's Socket.IO hub",
		Long: `Connect to a Socket.IO hub and evaluate the graphs it sends until
interrupted. Each evaluate event carries {id, graph, inputs}; the answer is a
result event with {id, outputs} or {id, error}.`,
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.URL == "" {
				return usageError("a hub URL is required (--url or %s)", envHubURL)
			}

			a, err := flags.newApp(cmd, healthcheckPort)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.Attach(ctx, opts)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.URL, "url", envString(envHubURL, ""), "Hub URL, e.g. http://localhost:3000/socket.io/.")
	f.StringVar(&opts.Namespace, "namespace", envString(envHubNamespace, "/"), "Socket.IO namespace.")
	f.BoolVar(&opts.InsecureSkipVerify, "insecure", false, "Skip TLS certificate verification.")
	f.DurationVar(&opts.ConnectTimeout, "connect-timeout", 0, "Connection timeout (default 15s).")
	f.StringVar(&opts.EvaluateEvent, "evaluate-event", hub.DefaultEvaluateEvent, "Event carrying evaluate requests.")
	f.StringVar(&opts.ResultEvent, "result-event", hub.DefaultResultEvent, "Event results are emitted on.")
	f.StringVar(&opts.ProgressEvent, "progress-event", hub.DefaultProgressEvent, "Event progress is emitted on.")
	f.BoolVar(&opts.DisableProgress, "no-progress", false, "Do not emit progress events.")
	f.IntVar(&healthcheckPort, "healthcheck-port", envInt(envHealthcheckPort, 0), "Port for the HTTP health check server. 0 is disabled.")
	return cmd
}

func newFunctionsCommand(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "functions",
		Short: "List the built-in functions",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := flags.newApp(cmd, 0)
			if err != nil {
				return err
			}
			defer a.Close()
			return writeFunctions(cmd.OutOrStdout(), a.Registry())
		},
	}
}

func writeFunctions(w io.Writer, r *registry.Registry) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tINPUTS\tDESCRIPTION")
	for _, name := range r.Names() {
		fn, _ := r.Lookup(name)
		inputs := make([]string, len(fn.Inputs))
		for i, in := range fn.Inputs {
			switch {
			case in.Optional:
				inputs[i] = in.Name + "?"
			case in.HasDefault:
				inputs[i] = fmt.Sprintf("%s=%v", in.Name, in.Default)
			default:
				inputs[i] = in.Name
			}
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", name, strings.Join(inputs, ","), fn.Description)
	}
	return tw.Flush()
}
