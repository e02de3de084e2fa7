// Package main provides a CLI for the oDesk API.
package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/kipanshi/odesk-meter/internal/config"
	"github.com/kipanshi/odesk-meter/internal/keystore"
	"github.com/kipanshi/odesk-meter/internal/logger"
	"github.com/kipanshi/odesk-meter/internal/meter"
	"github.com/kipanshi/odesk-meter/pkg/client"
	"github.com/kipanshi/odesk-meter/pkg/handshake"
	"github.com/kipanshi/odesk-meter/pkg/routers"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	apiURL     string
	keysFile   string
	envFile    string
	logLevel   string
	timeout    time.Duration
	jsonOutput bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "odesk",
	Short: "oDesk API CLI",
	Long: `A command-line client for the oDesk API.

This tool allows you to:
  - Authorize the application and store the access token
  - Show the hours worked today and this week
  - Call any API resource
  - Read job profiles
  - Shorten and expand links

Environment variables (also read from a .env file):
  ODESK_BASE_URL   - API base URL (default: https://www.odesk.com)
  ODESK_KEYS_FILE  - YAML file holding the keys and access token (default: keys.yaml)
  ODESK_LOG_LEVEL  - debug, info, warn or error (default: warn)
  ODESK_DEBUG_FILE - file receiving a JSON debug log of every call
  ODESK_TIMEOUT    - request timeout (default: 30s)`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "url", "", "API base URL (or ODESK_BASE_URL env)")
	rootCmd.PersistentFlags().StringVar(&keysFile, "keys", "", "Keys file (or ODESK_KEYS_FILE env)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", config.DefaultEnvFile, "Environment file to load")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (or ODESK_LOG_LEVEL env)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "Request timeout (or ODESK_TIMEOUT env)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(meterCmd)
	rootCmd.AddCommand(callCmd)
	rootCmd.AddCommand(jobCmd)
	rootCmd.AddCommand(urlCmd)
}

// loadConfig reads the environment and lets flags override it.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, err
	}
	if apiURL != "" {
		cfg.BaseURL = apiURL
	}
	if keysFile != "" {
		cfg.KeysFile = keysFile
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if timeout > 0 {
		cfg.Timeout = timeout
	}
	return cfg, cfg.Validate()
}

// session is what every API command needs.
type session struct {
	cfg     *config.Config
	log     *zap.Logger
	client  *client.Client
	routers *routers.Set
	close   func()
}

// newSession loads configuration and keys and builds an authorized client.
func newSession() (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	log, closeLog, err := logger.New(cfg.LogLevel, cfg.DebugFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	keys, err := keystore.Load(cfg.KeysFile)
	if err != nil {
		closeLog()
		return nil, err
	}
	if !keys.Authorized() {
		closeLog()
		return nil, fmt.Errorf("no access token in %s, run `odesk auth` first", cfg.KeysFile)
	}

	tok := keys.Token()
	c, err := client.New(keys.Credentials(),
		client.WithBaseURL(cfg.BaseURL),
		client.WithToken(tok.Key, tok.Secret),
		client.WithTimeout(cfg.Timeout),
		client.WithLogger(log),
	)
	if err != nil {
		closeLog()
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return &session{
		cfg:     cfg,
		log:     log,
		client:  c,
		routers: routers.New(c),
		close:   closeLog,
	}, nil
}

func (s *session) withTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.cfg.Timeout)
}

// explain adds a hint to errors the user can act on.
func explain(action string, err error) error {
	switch {
	case client.IsUnauthorized(err):
		return fmt.Errorf("%s: access token rejected, run `odesk auth` again: %w", action, err)
	case client.IsForbidden(err):
		return fmt.Errorf("%s: permission denied: %w", action, err)
	case client.IsNotFound(err):
		return fmt.Errorf("%s: not found: %w", action, err)
	}
	return fmt.Errorf("%s: %w", action, err)
}

// outputJSON writes v as indented JSON.
func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputResult writes an API result as indented JSON.
func outputResult(w io.Writer, r client.Result) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, r.Raw(), "", "  "); err != nil {
		return err
	}
	buf.WriteByte('\n')
	_, err := buf.WriteTo(w)
	return err
}

// Auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authorize the application",
	Long: `Runs the OAuth authorization and stores the access token in the keys file.

The application key and secret are read from the keys file, or taken from
--key and --secret to create it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		key, _ := cmd.Flags().GetString("key")
		secret, _ := cmd.Flags().GetString("secret")

		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		log, closeLog, err := logger.New(cfg.LogLevel, cfg.DebugFile)
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		defer closeLog()

		keys := &keystore.Keys{Key: key, Secret: secret}
		if key == "" || secret == "" {
			keys, err = keystore.Load(cfg.KeysFile)
			if err != nil {
				if errors.Is(err, keystore.ErrNotFound) {
					return fmt.Errorf("%w; pass --key and --secret to create it", err)
				}
				return err
			}
		}

		flow := handshake.New(keys.Credentials(),
			handshake.WithBaseURL(cfg.BaseURL),
			handshake.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
			handshake.WithLogger(log),
		)
		authURL, err := flow.AuthorizeURL()
		if err != nil {
			return fmt.Errorf("authorization failed: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Open this URL in a browser and approve the application:\n\n  %s\n\n", authURL)
		fmt.Fprint(out, "Verifier: ")

		verifier, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || verifier == "") {
			return fmt.Errorf("failed to read verifier: %w", err)
		}

		tok, err := flow.AccessToken(verifier)
		if err != nil {
			return fmt.Errorf("authorization failed: %w", err)
		}
		keys.SetToken(tok)
		if err := keystore.Save(cfg.KeysFile, keys); err != nil {
			return fmt.Errorf("failed to save keys: %w", err)
		}

		fmt.Fprintf(out, "\nAccess token saved to %s\n", cfg.KeysFile)
		return nil
	},
}

func init() {
	authCmd.Flags().String("key", "", "Application key")
	authCmd.Flags().String("secret", "", "Application secret")
}

// Meter command
var meterCmd = &cobra.Command{
	Use:   "meter",
	Short: "Show hours worked today and this week",
	Long:  "Totals the hours logged per team today and since Monday.",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}
		defer s.close()

		ctx, cancel := s.withTimeout()
		defer cancel()

		report, err := meter.New(meter.FromRouters(s.routers), meter.WithLogger(s.log)).Fetch(ctx)
		if err != nil {
			return explain("failed to read hours", err)
		}

		if jsonOutput {
			return outputJSON(cmd.OutOrStdout(), report)
		}
		return meter.Render(cmd.OutOrStdout(), report)
	},
}

// Call command
var callCmd = &cobra.Command{
	Use:   "call METHOD PATH",
	Short: "Call an API resource",
	Long: `Sends a signed request and prints the JSON response.

PATH is relative to the base URL; the .json suffix is added where needed.

Example:
  odesk call GET api/hr/v2/teams
  odesk call GET api/profiles/v1/jobs/~~1234
  odesk call POST api/hr/v1/jobs/~~1234/candidates -p cover="Hello"`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		pairs, _ := cmd.Flags().GetStringArray("param")
		params, err := parseParams(pairs)
		if err != nil {
			return err
		}

		s, err := newSession()
		if err != nil {
			return err
		}
		defer s.close()

		ctx, cancel := s.withTimeout()
		defer cancel()

		res, err := s.client.Do(ctx, &client.Request{
			Method: strings.ToUpper(args[0]),
			URL:    args[1],
			Params: params,
		})
		if err != nil {
			return explain("call failed", err)
		}
		return outputResult(cmd.OutOrStdout(), res)
	},
}

func init() {
	callCmd.Flags().StringArrayP("param", "p", nil, "Request parameter as key=value (repeatable)")
}

// parseParams turns key=value pairs into Params. Repeated keys become lists.
func parseParams(pairs []string) (client.Params, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	params := client.Params{}
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid parameter %q (use key=value)", pair)
		}
		switch prev := params[k].(type) {
		case nil:
			params[k] = v
		case string:
			params[k] = []string{prev, v}
		case []string:
			params[k] = append(prev, v)
		}
	}
	return params, nil
}

// Job command group
var jobCmd = &cobra.Command{
	Use:   "job",
	Short: "Job operations",
}

func init() {
	jobCmd.AddCommand(jobProfileCmd)
}

var jobProfileCmd = &cobra.Command{
	Use:   "profile KEY...",
	Short: "Show job profiles",
	Long:  "Prints the profile of one job by key or record number, or of several jobs by key.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}
		defer s.close()

		ctx, cancel := s.withTimeout()
		defer cancel()

		res, err := s.routers.Job.Profile(ctx, args...)
		if err != nil {
			return explain("failed to get job profile", err)
		}
		return outputResult(cmd.OutOrStdout(), res)
	},
}

// URL command group
var urlCmd = &cobra.Command{
	Use:   "url",
	Short: "Shorten and expand links",
}

func init() {
	urlCmd.AddCommand(urlShortenCmd)
	urlCmd.AddCommand(urlExpandCmd)
}

var urlShortenCmd = &cobra.Command{
	Use:   "shorten URL",
	Short: "Shorten an odesk.com link",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runURL(cmd, "short_url", func(ctx context.Context, u *routers.URL) (string, error) {
			return u.Shorten(ctx, args[0])
		})
	},
}

var urlExpandCmd = &cobra.Command{
	Use:   "expand URL",
	Short: "Expand a shortened link",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runURL(cmd, "long_url", func(ctx context.Context, u *routers.URL) (string, error) {
			return u.Expand(ctx, args[0])
		})
	},
}

func runURL(cmd *cobra.Command, field string, fn func(context.Context, *routers.URL) (string, error)) error {
	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.close()

	ctx, cancel := s.withTimeout()
	defer cancel()

	link, err := fn(ctx, s.routers.URL)
	if err != nil {
		return explain("url lookup failed", err)
	}
	if jsonOutput {
		return outputJSON(cmd.OutOrStdout(), map[string]string{field: link})
	}
	fmt.Fprintln(cmd.OutOrStdout(), link)
	return nil
}
