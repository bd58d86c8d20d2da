package main

import (
	"fmt"
	"io"
	"os"

	"github.com/pthm/rigor"
	"github.com/pthm/rigor/internal/demo"
	"github.com/pthm/rigor/lib/dom/memdom"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var renderCmd = &cobra.Command{
	Use:   "render [file]",
	Short: "Render a node file or a demo component to markup",
	Long: `Render reads a node from a YAML or JSON file ("-" for stdin) or builds
one from --component and --prop, and prints its markup.

With --live the node is mounted into an in-memory document instead and the
resulting document body is printed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		opts, err := cfg.RendererOptions(logger)
		if err != nil {
			return err
		}
		node, err := nodeFromArgs(cmd, args)
		if err != nil {
			return err
		}

		live, _ := cmd.Flags().GetBool("live")
		html, err := renderNode(rigor.New(opts...), node, live)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprint(out, html)
		if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			fmt.Fprintln(out)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().StringP("component", "c", "", "Demo component to render instead of a file")
	renderCmd.Flags().StringArrayP("prop", "p", nil, "Component prop as key=value (repeatable)")
	renderCmd.Flags().Bool("live", false, "Mount into an in-memory document instead of rendering to a string")
}

func nodeFromArgs(cmd *cobra.Command, args []string) (any, error) {
	name, _ := cmd.Flags().GetString("component")
	if name != "" {
		comp, ok := demo.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("unknown component %q", name)
		}
		pairs, _ := cmd.Flags().GetStringArray("prop")
		props, err := propsFromPairs(pairs)
		if err != nil {
			return nil, err
		}
		return rigor.H(comp, props), nil
	}

	if len(args) == 0 {
		return nil, fmt.Errorf("a node file or --component is required")
	}
	var (
		data []byte
		err  error
	)
	if args[0] == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read node: %w", err)
	}
	return parseNode(data, args[0])
}

func renderNode(r *rigor.Renderer, node any, live bool) (string, error) {
	if !live {
		return r.RenderToString(node)
	}
	doc := memdom.NewDocument()
	if err := r.Mount(node, doc.Body()); err != nil {
		return "", err
	}
	return doc.Body().InnerHTML(), nil
}
