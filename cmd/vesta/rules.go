package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"tidy-hq/vesta/pkg/classify/ollama"
	"tidy-hq/vesta/pkg/rulegen"
	"tidy-hq/vesta/pkg/rules"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Manage sorting rules",
}

var rulesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the sorting rules in priority order",
	RunE:  runRulesList,
}

var rulesAddFlags struct {
	condition string
	action    string
	target    string
	retention string
	priority  int
	natural   string
}

var rulesAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a sorting rule",
	Long: `Add a sorting rule, either from explicit flags or generated from a
natural-language description via the AI collaborator.

Examples:
  # Explicit rule
  vesta rules add --condition "filetype == 'pdf'" --action move --target "~/Documents/{filename}"

  # Scheduled deletion
  vesta rules add --condition "filetype == 'tmp'" --action delete --retention "3 days"

  # Generated from a description
  vesta rules add --natural "encrypt every file coming from my banking app"`,
	RunE: runRulesAdd,
}

var rulesPopCmd = &cobra.Command{
	Use:   "pop",
	Short: "Remove the most recently added rule",
	RunE:  runRulesPop,
}

func init() {
	rootCmd.AddCommand(rulesCmd)
	rulesCmd.AddCommand(rulesListCmd, rulesAddCmd, rulesPopCmd)

	rulesAddCmd.Flags().StringVar(&rulesAddFlags.condition, "condition", "", "rule condition expression")
	rulesAddCmd.Flags().StringVar(&rulesAddFlags.action, "action", "", "action type (move, copy, delete, encrypt, decrypt, compress, extract)")
	rulesAddCmd.Flags().StringVar(&rulesAddFlags.target, "target", "", "target path template for move/copy")
	rulesAddCmd.Flags().StringVar(&rulesAddFlags.retention, "retention", "", "retention for delete actions, e.g. '3 days'")
	rulesAddCmd.Flags().IntVar(&rulesAddFlags.priority, "priority", 1, "rule priority, higher runs first")
	rulesAddCmd.Flags().StringVar(&rulesAddFlags.natural, "natural", "", "natural-language rule description")
}

func runRulesList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	_, _, store, err := openQueues(cfg, logger)
	if err != nil {
		return err
	}

	ruleSet := store.Load()
	descs := store.Descriptions()
	if len(ruleSet) == 0 {
		fmt.Println("No rules configured.")
		return nil
	}

	for i, rule := range ruleSet {
		fmt.Printf("%d. [priority %d] %s -> %s", i+1, rule.EffectivePriority(), rule.Condition, rule.Action.Type)
		if rule.Action.TargetPath != "" {
			fmt.Printf(" %s", rule.Action.TargetPath)
		}
		if rule.Action.Time != "" {
			fmt.Printf(" after %s", rule.Action.Time)
		}
		fmt.Println()
		if i < len(descs) && descs[i] != "" {
			fmt.Printf("   %s\n", descs[i])
		}
	}
	return nil
}

func runRulesAdd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	_, _, store, err := openQueues(cfg, logger)
	if err != nil {
		return err
	}

	var rule rules.Rule
	description := rulesAddFlags.natural

	if rulesAddFlags.natural != "" {
		collab, err := ollama.New(ollama.Config{
			BaseURL:      cfg.Classifier.Endpoint,
			TextModel:    cfg.Classifier.TextModel,
			VisionModel:  cfg.Classifier.VisionModel,
			Timeout:      cfg.Classifier.Timeout,
			ImageTimeout: cfg.Classifier.ImageTimeout,
		}, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize classifier: %w", err)
		}
		rule, description, err = rulegen.New(collab, logger).Generate(context.Background(), rulesAddFlags.natural)
		if err != nil {
			return err
		}
	} else {
		if rulesAddFlags.condition == "" || rulesAddFlags.action == "" {
			return fmt.Errorf("either --natural or both --condition and --action are required")
		}
		rule = rules.Rule{
			Condition: rulesAddFlags.condition,
			Action: rules.Action{
				Type:       rules.ActionType(rulesAddFlags.action),
				TargetPath: rulesAddFlags.target,
				Time:       rulesAddFlags.retention,
			},
			Priority: rulesAddFlags.priority,
		}
		if !rule.Action.Type.Valid() {
			return fmt.Errorf("unknown action type %q", rulesAddFlags.action)
		}
	}

	if err := store.Append(rule, description); err != nil {
		return err
	}
	fmt.Printf("✓ Added rule: %s -> %s\n", rule.Condition, rule.Action.Type)
	return nil
}

func runRulesPop(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	_, _, store, err := openQueues(cfg, logger)
	if err != nil {
		return err
	}

	rule, err := store.PopLast()
	if err != nil {
		return err
	}
	fmt.Printf("✓ Removed rule: %s -> %s\n", rule.Condition, rule.Action.Type)
	return nil
}
