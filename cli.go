package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/usmanzafar/portfolio/internal/config"
	"github.com/usmanzafar/portfolio/internal/portfolio"
	"github.com/usmanzafar/portfolio/internal/resume"
)

var (
	colorAccent = lipgloss.Color("#34D399")
	colorDim    = lipgloss.Color("#64748B")

	styleHeader = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	styleDim    = lipgloss.NewStyle().Foreground(colorDim)
)

// printer styles output only when writing to a terminal.
type printer struct {
	w     io.Writer
	color bool
}

func newPrinter(w io.Writer) *printer {
	color := false
	if f, ok := w.(*os.File); ok {
		color = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &printer{w: w, color: color}
}

func (p *printer) render(style lipgloss.Style, s string) string {
	if !p.color {
		return s
	}
	return style.Render(s)
}

func (p *printer) header(s string) {
	fmt.Fprintln(p.w, p.render(styleHeader, s))
}

func (p *printer) row(label string, value any) {
	fmt.Fprintf(p.w, "  %s %v\n", p.render(styleDim, fmt.Sprintf("%-12s", label)), value)
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "portfolio",
		Short:        "Personal portfolio site",
		SilenceUsage: true,
	}
	serveCmd := newServeCmd()
	root.RunE = serveCmd.RunE
	root.Flags().AddFlagSet(serveCmd.Flags())

	root.AddCommand(serveCmd, newContentCmd(), newResumeCmd())
	return root
}

func newServeCmd() *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the portfolio over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Port = port
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
	cmd.Flags().StringVarP(&port, "port", "p", "", "listen port or address (overrides PORT)")
	return cmd
}

func newContentCmd() *cobra.Command {
	content := &cobra.Command{
		Use:   "content",
		Short: "Inspect portfolio content",
	}
	content.AddCommand(&cobra.Command{
		Use:   "check [file]",
		Short: "Load a content file (or the embedded one) and summarize it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			profile, err := portfolio.LoadFile(path)
			if err != nil {
				return err
			}

			p := newPrinter(cmd.OutOrStdout())
			p.header(profile.FullName)
			p.row("experience", len(profile.Experience))
			p.row("projects", len(profile.Projects))
			p.row("featured", len(profile.FeaturedProjects()))
			p.row("skills", len(profile.Skills))
			p.row("education", len(profile.Education))
			p.row("contacts", len(profile.Contacts))
			return nil
		},
	})
	return content
}

func newResumeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resume",
		Short: "Résumé variants",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List résumé variants and their assets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := newPrinter(cmd.OutOrStdout())
			for _, choice := range resume.Choices() {
				p.header(fmt.Sprintf("%s  %s", choice.Option, choice.Title))
				p.row("source", choice.Asset.SourcePath)
				p.row("saved as", choice.Asset.DownloadName)
			}
			return nil
		},
	})
	return cmd
}
