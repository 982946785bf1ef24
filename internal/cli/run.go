package cli

import (
	"context"
	"fmt"
	"io"
)

// Run executes one taskctl invocation. args excludes argv[0]. The returned value is
// the process exit code.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	r := &runner{stdout: stdout, stderr: stderr}
	root := newRootCommand(r)
	if args == nil {
		// cobra falls back to os.Args on a nil slice.
		args = []string{}
	}
	root.SetArgs(args)

	cmd, err := root.ExecuteContextC(ctx)
	code := ExitCode(err)
	if err != nil {
		fmt.Fprintf(stderr, "taskctl: %v\n", err)
		if isUsageError(err) {
			printUsage(stderr, cmd)
		}
	}
	if cerr := r.close(); cerr != nil {
		fmt.Fprintf(stderr, "taskctl: %v\n", cerr)
		if code == ExitSuccess {
			code = ExitIOError
		}
	}
	return code
}
