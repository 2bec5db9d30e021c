package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/formkit/internal/signup"
	"github.com/dmitrymomot/formkit/pkg/form"
	"github.com/dmitrymomot/formkit/pkg/logger"
	"github.com/dmitrymomot/formkit/pkg/source"
)

// errInvalid marks a document that failed validation. The report is already
// printed, so main only sets the exit status.
var errInvalid = errors.New("document is invalid")

type validateOptions struct {
	format string
	taken  []string
	quiet  bool
}

func newValidateCmd() *cobra.Command {
	var opts validateOptions
	cmd := &cobra.Command{
		Use:   "validate [file]",
		Short: "Validate a JSON or YAML signup document",
		Long: `Reads a signup document from file, or from stdin when no file is given,
prints the normalized output when it is valid and the failing fields otherwise.
The exit status is 1 for invalid documents.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, args, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "Input format: json or yaml (default from file extension, else json)")
	cmd.Flags().StringSliceVar(&opts.taken, "taken", nil, "Emails to treat as already registered")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "Print nothing for valid documents")
	return cmd
}

func runValidate(cmd *cobra.Command, args []string, opts validateOptions) error {
	r := cmd.InOrStdin()
	name := "stdin"
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		r, name = f, args[0]
	}

	format, err := detectFormat(opts.format, name)
	if err != nil {
		return err
	}
	in, err := decode(r, format)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	log := logger.Discard()
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		log = logger.New(
			logger.WithOutput(cmd.ErrOrStderr()),
			logger.WithFormat(logger.FormatText),
			logger.WithLevel(slog.LevelDebug),
		)
	}

	v := signup.New(signup.NewMemoryIndex(opts.taken...),
		signup.WithLogger(log),
		signup.WithBcryptCost(bcrypt.MinCost),
	)
	n, err := v.Validate(cmd.Context(), in)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !n.Valid() {
		printErrors(out, name, n.Errors())
		return errInvalid
	}
	if opts.quiet {
		return nil
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(n.Output())
}

func detectFormat(flag, name string) (string, error) {
	switch strings.ToLower(flag) {
	case "json", "yaml":
		return strings.ToLower(flag), nil
	case "yml":
		return "yaml", nil
	case "":
	default:
		return "", fmt.Errorf("unknown format %q: must be json or yaml", flag)
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return "yaml", nil
	}
	return "json", nil
}

func decode(r io.Reader, format string) (map[string]any, error) {
	if format == "yaml" {
		return source.YAML(r)
	}
	return source.JSON(r)
}

func printErrors(w io.Writer, name string, errs form.Errors) {
	term := termenv.NewOutput(w)
	red := term.Color("1")
	flat := errs.Flatten()

	fmt.Fprintf(w, "%s: %s\n", name, term.String(fmt.Sprintf("%d invalid field(s)", len(flat))).Foreground(red).Bold())
	for _, path := range slices.Sorted(maps.Keys(flat)) {
		fmt.Fprintf(w, "  %s: %s\n", term.String(path).Bold(), strings.Join(flat[path], ", "))
	}
}
