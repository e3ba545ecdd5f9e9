package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/LawrenceCirillo/Alan/internal/intent"
	"github.com/LawrenceCirillo/Alan/internal/planner"
	"github.com/LawrenceCirillo/Alan/internal/store"
	"github.com/LawrenceCirillo/Alan/pkg/api"
	"github.com/LawrenceCirillo/Alan/pkg/client"
	"github.com/LawrenceCirillo/Alan/pkg/stream"
)

const defaultServerURL = "http://localhost:8080"

func newClassifyCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "classify <message>",
		Short: "Print whether a message is a goal or chat",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			model, err := newModel(cfg)
			if err != nil {
				return err
			}

			c := intent.NewClassifier(model, cfg.ClassifyTimeout)
			res := c.Classify(cmd.Context(), strings.Join(args, " "))
			_, err = fmt.Fprintln(cmd.OutOrStdout(), res)
			return err
		},
	}
}

func newGenerateCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "generate <goal>",
		Short: "Plan a workflow blueprint and print it as JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			model, err := newModel(cfg)
			if err != nil {
				return err
			}

			p := planner.New(model, store.NewMemoryStore(1))
			bp, err := p.Plan(cmd.Context(), api.GenerateRequest{
				Goal: strings.Join(args, " "),
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), bp)
		},
	}
}

func newChatCommand(opts *options) *cobra.Command {
	var url string
	cmd := &cobra.Command{
		Use:   "chat <message>",
		Short: "Send a message to a running server and print the reply",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}

			c := client.NewClient(url, cfg.ChatTimeout)
			out := cmd.OutOrStdout()
			msgs := []api.ChatMessage{{
				Role:    api.RoleUser,
				Content: strings.Join(args, " "),
			}}
			return c.Chat(cmd.Context(), msgs, func(f *stream.Frame) error {
				return printFrame(out, f)
			})
		},
	}
	cmd.Flags().StringVar(&url, "url", defaultServerURL, "server base URL")
	return cmd
}

func printFrame(w io.Writer, f *stream.Frame) error {
	switch f.Kind {
	case stream.KindText:
		_, err := fmt.Fprintln(w, f.Text)
		return err
	case stream.KindToolCall:
		for _, tc := range f.ToolCalls {
			if _, err := fmt.Fprintf(w, "[%s]\n", tc.ToolName); err != nil {
				return err
			}
			inv, err := tc.Invocation()
			if err != nil {
				return err
			}
			if err := printJSON(w, inv.Args()); err != nil {
				return err
			}
		}
		return nil
	default:
		return nil
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
