package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/demoforge/demo-orchestrator/internal/models"
)

func main() {
	var credsFile string

	rootCmd := &cobra.Command{
		Use:   "democtl",
		Short: "Operator CLI for the demo orchestrator",
		Long: `democtl drives the demo orchestrator API: generate demos from a
use-case description, inspect stored records, and manage operator tokens.

Credentials and the API endpoint are read from an INI file
(default ~/.demoforge/credentials.ini):

  [api]
  base_url = http://localhost:8080
  token    = <issued by "democtl token">

  [operator]
  email    = ops@example.com
  password = ...`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&credsFile, "credentials", credentialsPath(), "path to the credentials INI file")

	rootCmd.AddCommand(newGenerateCmd(&credsFile))
	rootCmd.AddCommand(newGetCmd(&credsFile))
	rootCmd.AddCommand(newHealthCmd(&credsFile))
	rootCmd.AddCommand(newTokenCmd(&credsFile))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newGenerateCmd(credsFile *string) *cobra.Command {
	var (
		title        string
		capabilities []string
		audience     string
		industry     string
		style        string
		async        bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a demo from a use-case description",
		RunE: func(cmd *cobra.Command, args []string) error {
			creds, err := loadCredentials(*credsFile)
			if err != nil {
				return err
			}
			client := newAPIClient(creds)

			input := models.UseCaseInput{
				Title:            title,
				Capabilities:     capabilities,
				TargetAudience:   audience,
				Industry:         industry,
				StylePreferences: style,
			}
			if err := input.Validate(); err != nil {
				return err
			}

			path := "/generate-demo-enhanced"
			if async {
				path = "/generate-demo"
			}

			var out map[string]any
			if err := client.do(cmd.Context(), http.MethodPost, path, input, &out); err != nil {
				return err
			}
			return printJSON(out)
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "demo title (required)")
	cmd.Flags().StringArrayVar(&capabilities, "capability", nil, "capability to showcase (repeatable, required)")
	cmd.Flags().StringVar(&audience, "audience", "", "target audience")
	cmd.Flags().StringVar(&industry, "industry", "", "industry")
	cmd.Flags().StringVar(&style, "style", "", "style preferences")
	cmd.Flags().BoolVar(&async, "async", false, "return immediately and poll with 'democtl get'")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("capability")

	return cmd
}

func newGetCmd(credsFile *string) *cobra.Command {
	var progress bool

	cmd := &cobra.Command{
		Use:   "get <demoId>",
		Short: "Fetch a demo record or its progress",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			creds, err := loadCredentials(*credsFile)
			if err != nil {
				return err
			}
			client := newAPIClient(creds)

			path := "/demos/" + args[0]
			if progress {
				path += "/progress"
			}

			var out map[string]any
			if err := client.do(cmd.Context(), http.MethodGet, path, nil, &out); err != nil {
				return err
			}
			return printJSON(out)
		},
	}

	cmd.Flags().BoolVar(&progress, "progress", false, "show the derived progress snapshot instead of the full record")
	return cmd
}

func newHealthCmd(credsFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check API liveness and readiness",
		RunE: func(cmd *cobra.Command, args []string) error {
			creds, err := loadCredentials(*credsFile)
			if err != nil {
				return err
			}
			client := newAPIClient(creds)

			var health map[string]any
			if err := client.do(cmd.Context(), http.MethodGet, "/health", nil, &health); err != nil {
				return err
			}
			var ready map[string]any
			if err := client.do(cmd.Context(), http.MethodGet, "/ready", nil, &ready); err != nil {
				return err
			}
			return printJSON(map[string]any{"health": health, "ready": ready})
		},
	}
}

func newTokenCmd(credsFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "token",
		Short: "Exchange the operator credential for a bearer token",
		RunE: func(cmd *cobra.Command, args []string) error {
			creds, err := loadCredentials(*credsFile)
			if err != nil {
				return err
			}
			if creds.Email == "" || creds.Password == "" {
				return fmt.Errorf("no operator credential in %s: set [operator] email and password", *credsFile)
			}
			client := newAPIClient(creds)

			var out struct {
				Token     string `json:"token"`
				ExpiresIn int    `json:"expiresIn"`
			}
			body := map[string]string{"email": creds.Email, "password": creds.Password}
			if err := client.do(cmd.Context(), http.MethodPost, "/auth/token", body, &out); err != nil {
				return err
			}

			if err := saveToken(*credsFile, out.Token); err != nil {
				return err
			}
			fmt.Printf("token saved to %s (expires in %ds)\n", *credsFile, out.ExpiresIn)
			return nil
		},
	}
}
