package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/slashdevops/sysmonitor"
	"github.com/slashdevops/sysmonitor/internal/config"
	"github.com/slashdevops/sysmonitor/internal/version"
)

// app carries state shared by every command of one invocation.
type app struct {
	configPath string
	logLevel   string
	logFile    string
	output     string

	cfg     *config.Config
	logger  *slog.Logger
	closer  io.Closer
	printer *printer

	// newCollector builds the collector; tests replace it to inject a mock executor.
	newCollector func(cfg *config.Config, logger *slog.Logger) *sysmonitor.Collector
}

func newRootCmd(a *app) *cobra.Command {
	if a.newCollector == nil {
		a.newCollector = defaultCollector
	}

	rootCmd := &cobra.Command{
		Use:           applicationName,
		Short:         "Collect host diagnostics and relay them to an API",
		Version:       version.Short(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.closer != nil {
				return a.closer.Close()
			}

			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "Path to a YAML config file (default "+config.DefaultPath+" if present)")
	flags.StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	flags.StringVar(&a.logFile, "log-file", "", "Also append logs to this file")
	flags.StringVarP(&a.output, "output", "o", formatJSON, "Output format: json or yaml")

	rootCmd.AddCommand(
		newInfoCmd(a),
		newPlatformCmd(a),
		newConnectivityCmd(a),
		newSendCmd(a),
		newCollectCmd(a),
		newVersionCmd(),
	)

	return rootCmd
}

// setup loads config, then lets explicitly set flags override it.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = a.logLevel
	}
	if cmd.Flags().Changed("log-file") {
		cfg.Log.File = a.logFile
	}

	logger, closer, err := newLogger(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return err
	}

	p, err := newPrinter(cmd.OutOrStdout(), a.output)
	if err != nil {
		closer.Close()

		return err
	}

	a.cfg = cfg
	a.logger = logger
	a.closer = closer
	a.printer = p

	return nil
}

// defaultCollector wires a collector for the running OS from cfg.
func defaultCollector(cfg *config.Config, logger *slog.Logger) *sysmonitor.Collector {
	c := sysmonitor.New().
		WithLogger(logger).
		WithProbeHosts(cfg.Probe.Hosts...).
		WithPingTimeout(time.Duration(cfg.Probe.Timeout))

	if cfg.Probe.Method == config.ProbeICMP {
		c.WithPinger(&sysmonitor.ICMPPinger{
			Timeout:    time.Duration(cfg.Probe.Timeout),
			Privileged: cfg.Probe.Privileged,
			Logger:     logger,
		})
	}

	return c
}

func (a *app) relay() *sysmonitor.Relay {
	return sysmonitor.NewRelay().
		WithClient(&http.Client{Timeout: time.Duration(a.cfg.Timeout)}).
		WithUserAgent(a.cfg.UserAgent).
		WithLogger(a.logger)
}

func newInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show OS name, OS version and hostname",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := a.newCollector(a.cfg, a.logger)

			return a.printer.print(c.BasicSystemInfo(cmd.Context()))
		},
	}
}

func newPlatformCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "platform",
		Short: "Show hardware serial number and OS activation status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := a.newCollector(a.cfg, a.logger)

			return a.printer.print(c.PlatformInfo(cmd.Context()))
		},
	}
}

type connectivityOutput struct {
	Online bool `json:"online"`
}

func newConnectivityCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "connectivity",
		Short: "Check whether any well-known public host is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := a.newCollector(a.cfg, a.logger)

			return a.printer.print(connectivityOutput{Online: c.CheckConnectivity(cmd.Context())})
		},
	}
}

func newSendCmd(a *app) *cobra.Command {
	var endpoint, token, payload string

	cmd := &cobra.Command{
		Use:   "send",
		Short: "POST a JSON payload to an API endpoint and print the response body",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("endpoint") {
				endpoint = a.cfg.Endpoint
			}
			if !cmd.Flags().Changed("token") {
				token = a.cfg.Token
			}
			if endpoint == "" {
				return errors.New("no endpoint configured; use --endpoint or " + config.EnvEndpoint)
			}

			body, err := readPayload(cmd.InOrStdin(), payload)
			if err != nil {
				return err
			}

			resp, err := a.relay().Send(cmd.Context(), endpoint, body, token)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), resp)

			return err
		},
	}

	cmd.Flags().StringVar(&endpoint, "endpoint", "", "Endpoint URL (defaults to config)")
	cmd.Flags().StringVar(&token, "token", "", "Bearer token; omitted from the request when empty")
	cmd.Flags().StringVar(&payload, "payload", "", "Payload text, @file to read a file, or - for stdin")

	return cmd
}

// readPayload resolves the --payload forms: literal text, @path, or "-".
func readPayload(stdin io.Reader, payload string) (string, error) {
	switch {
	case payload == "-":
		b, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read payload from stdin: %w", err)
		}

		return string(b), nil
	case strings.HasPrefix(payload, "@"):
		b, err := os.ReadFile(strings.TrimPrefix(payload, "@"))
		if err != nil {
			return "", fmt.Errorf("read payload file: %w", err)
		}

		return string(b), nil
	default:
		return payload, nil
	}
}

type collectOutput struct {
	sysmonitor.Report
	Response string `json:"response,omitempty"`
}

func newCollectCmd(a *app) *cobra.Command {
	var send bool

	cmd := &cobra.Command{
		Use:   "collect",
		Short: "Collect every fact into one report, optionally relaying it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := a.newCollector(a.cfg, a.logger)
			out := collectOutput{Report: c.Report(cmd.Context())}

			if send {
				if a.cfg.Endpoint == "" {
					return errors.New("--send needs an endpoint; set it in the config or " + config.EnvEndpoint)
				}

				payload, err := json.Marshal(out.Report)
				if err != nil {
					return fmt.Errorf("encode report: %w", err)
				}

				resp, err := a.relay().Send(cmd.Context(), a.cfg.Endpoint, string(payload), a.cfg.Token)
				if err != nil {
					return err
				}
				out.Response = resp
			}

			return a.printer.print(out)
		},
	}

	cmd.Flags().BoolVar(&send, "send", false, "Relay the report to the configured endpoint")

	return cmd
}

func newVersionCmd() *cobra.Command {
	var long bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		// Overrides the root hook: version needs no config.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			if long {
				fmt.Fprintf(cmd.OutOrStdout(), "%s version: %s\n", applicationName, version.Long())

				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s version: %s\n", applicationName, version.Short())

			return nil
		},
	}

	cmd.Flags().BoolVar(&long, "long", false, "Show detailed version information")

	return cmd
}
