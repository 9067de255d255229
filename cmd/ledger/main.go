package main

import (
	"context"
	"io"
	"os"

	cc "github.com/ivanpirog/coloredcobra"
	"github.com/spf13/cobra"

	"ledger/internal/cli"
)

func main() {
	ctx, stop := cli.SignalContext(context.Background())
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, colorHelp); err != nil {
		stop()
		cli.Fatal(err)
	}
}

// run builds the command tree, executes it and releases the backend.
func run(ctx context.Context, args []string, in io.Reader, out io.Writer, decorate ...func(*cobra.Command)) error {
	a := &app{}
	root := newRootCmd(a)
	for _, d := range decorate {
		d(root)
	}
	root.SetArgs(args)
	root.SetIn(in)
	root.SetOut(out)

	err := root.ExecuteContext(ctx)
	if cerr := a.close(); err == nil {
		err = cerr
	}
	return err
}

// colorHelp styles help and usage output on terminals.
func colorHelp(root *cobra.Command) {
	cc.Init(&cc.Config{
		RootCmd:  root,
		Headings: cc.HiCyan + cc.Bold + cc.Underline,
		Commands: cc.HiYellow + cc.Bold,
		Example:  cc.Italic,
		ExecName: cc.Bold,
		Flags:    cc.Bold,
	})
}
