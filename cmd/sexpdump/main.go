package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/opal-lang/sexpr/sexpr"
)

func main() {
	var (
		mode  string
		watch bool
	)

	rootCmd := &cobra.Command{
		Use:           "sexpdump [file]",
		Short:         "Parse and re-serialize a canonical S-expression",
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var file string
			if len(args) == 1 {
				file = args[0]
			}

			serializeMode, err := parseMode(mode)
			if err != nil {
				return err
			}

			if watch {
				if file == "" {
					return fmt.Errorf("--watch requires a file argument")
				}
				return watchAndDump(file, serializeMode)
			}

			return dumpOnce(file, serializeMode)
		},
	}

	rootCmd.Flags().StringVar(&mode, "mode", "canonical", "output mode: canonical|advanced")
	rootCmd.Flags().BoolVar(&watch, "watch", false, "re-dump on file change")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "sexpdump: %v\n", err)
		os.Exit(1)
	}
}

func parseMode(s string) (sexpr.Mode, error) {
	switch s {
	case "canonical", "":
		return sexpr.ModeCanonical, nil
	case "advanced":
		return sexpr.ModeAdvanced, nil
	default:
		return 0, fmt.Errorf("unknown mode %q (want canonical|advanced)", s)
	}
}

func dumpOnce(file string, mode sexpr.Mode) error {
	data, err := readInput(file)
	if err != nil {
		return err
	}
	return dumpBytes(data, mode, os.Stdout)
}

func dumpBytes(data []byte, mode sexpr.Mode, w io.Writer) error {
	tree, err := sexpr.Parse(data)
	if err != nil {
		return err
	}
	defer tree.Release()

	n, err := sexpr.Serialize(tree, mode, make([]byte, 0))
	if err != nil {
		// n carries the required size; retry with a buffer that fits.
		buf := make([]byte, n)
		n, err = sexpr.Serialize(tree, mode, buf)
		if err != nil {
			return err
		}
		_, err = w.Write(buf[:n])
		return err
	}
	return nil
}

func readInput(file string) ([]byte, error) {
	if file == "" || file == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(file)
}

func watchAndDump(file string, mode sexpr.Mode) error {
	if err := dumpOnce(file, mode); err != nil {
		fmt.Fprintf(os.Stderr, "sexpdump: %v\n", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("sexpdump: creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(file); err != nil {
		return fmt.Errorf("sexpdump: watching %s: %w", file, err)
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if err := dumpOnce(file, mode); err != nil {
				fmt.Fprintf(os.Stderr, "sexpdump: %v\n", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "sexpdump: watcher error: %v\n", err)
		}
	}
}
