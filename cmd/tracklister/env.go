package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// skippedEnvFlags are command-line only.
var skippedEnvFlags = map[string]bool{
	"config":               true,
	"generate-env-example": true,
	"help":                 true,
}

func generateEnvExample(cmd *cobra.Command) error {
	fmt.Println("Generating .env.example file from current configuration...")

	content := generateEnvExampleContent(cmd)

	if err := os.WriteFile(".env.example", []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write .env.example: %w", err)
	}

	fmt.Println("✅ Successfully generated .env.example file")
	return nil
}

func generateEnvExampleContent(cmd *cobra.Command) string {
	var content strings.Builder

	content.WriteString("# =============================================================================\n")
	content.WriteString("# tracklister Configuration\n")
	content.WriteString("# =============================================================================\n")
	content.WriteString("#\n")
	content.WriteString("# Copy this file to .env and update with your values\n")
	content.WriteString("# All environment variables have CLI flag equivalents (use --help to see them)\n")
	content.WriteString("#\n")
	fmt.Fprintf(&content, "# Format: %s_<SETTING>=value\n", envPrefix)
	content.WriteString("# CLI equivalent: --<setting>\n")
	content.WriteString("# PORT is honoured as an alias of " + flagToEnvVar("server-port") + "\n")
	content.WriteString("# =============================================================================\n\n")

	cmd.Root().PersistentFlags().VisitAll(func(f *pflag.Flag) {
		if skippedEnvFlags[f.Name] {
			return
		}
		fmt.Fprintf(&content, "# %s\n", f.Usage)
		fmt.Fprintf(&content, "%s=%s\n\n", flagToEnvVar(f.Name), f.DefValue)
	})

	return content.String()
}

func flagToEnvVar(flagName string) string {
	return envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(flagName, "-", "_"))
}
