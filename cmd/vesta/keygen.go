package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tidy-hq/vesta/pkg/vault"
)

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate the file encryption key",
	Long: `Generate a fresh encryption key at the configured vault.key_path.
Refuses to overwrite an existing key.`,
	RunE: runKeygen,
}

func init() {
	rootCmd.AddCommand(keygenCmd)
}

func runKeygen(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Vault.KeyPath == "" {
		return fmt.Errorf("vault.key_path is not configured")
	}

	if err := vault.GenerateKey(cfg.Vault.KeyPath); err != nil {
		return err
	}
	fmt.Printf("✓ Key written to %s\n", cfg.Vault.KeyPath)
	return nil
}
