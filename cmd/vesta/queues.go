package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"tidy-hq/vesta/pkg/archive"
	"tidy-hq/vesta/pkg/config"
	"tidy-hq/vesta/pkg/executor"
	"tidy-hq/vesta/pkg/queue"
	"tidy-hq/vesta/pkg/vault"
)

var queuesCmd = &cobra.Command{
	Use:   "queues",
	Short: "Review and approve queued actions",
}

var queuesListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the contents of every action queue",
	RunE:  runQueuesList,
}

var queuesApproveCmd = &cobra.Command{
	Use:   "approve",
	Short: "Execute all queued actions",
	Long: `Execute every queued action: moves, copies, encryption, decryption,
compression and extraction. Moves and copies that fail stay queued for
the next approval.`,
	RunE: runQueuesApprove,
}

var queuesRejectCmd = &cobra.Command{
	Use:   "reject <queue> <index>...",
	Short: "Discard queued actions without executing them",
	Long: `Discard the numbered entries of a queue without executing them.
Queue is one of: pending, encrypt, decrypt, compress, extract.
Indices are 1-based as shown by 'vesta queues list'.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runQueuesReject,
}

func init() {
	rootCmd.AddCommand(queuesCmd)
	queuesCmd.AddCommand(queuesListCmd, queuesApproveCmd, queuesRejectCmd)
}

func newApprover(cfg *config.Config) (*executor.Approver, error) {
	logger := newLogger(cfg)

	queues, processed, _, err := openQueues(cfg, logger)
	if err != nil {
		return nil, err
	}

	var crypter executor.Crypter
	if cfg.Vault.KeyPath != "" {
		v, err := vault.Open(cfg.Vault.KeyPath, logger)
		if err == nil {
			crypter = v
		} else {
			logger.Warn("encryption unavailable", "error", err)
		}
	}

	return executor.NewApprover(
		queues, executor.New(logger), crypter, archive.NewZipper(logger), processed, logger), nil
}

func runQueuesList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	queues, _, _, err := openQueues(cfg, logger)
	if err != nil {
		return err
	}

	entries, err := queues.Pending.Load()
	if err != nil {
		return err
	}
	fmt.Printf("pending (%d):\n", len(entries))
	for i, entry := range entries {
		fmt.Printf("  %d. %s %s -> %s\n", i+1, entry.Type, entry.OriginalPath, entry.TargetPath)
	}

	for _, name := range []queue.Name{queue.Encrypt, queue.Decrypt, queue.Compress, queue.Extract} {
		paths, err := queues.PathQueue(name).Load()
		if err != nil {
			return err
		}
		fmt.Printf("%s (%d):\n", name, len(paths))
		for i, path := range paths {
			fmt.Printf("  %d. %s\n", i+1, path)
		}
	}
	return nil
}

func runQueuesApprove(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	approver, err := newApprover(cfg)
	if err != nil {
		return err
	}

	executed, err := approver.ApproveAll()
	if err != nil {
		return err
	}
	fmt.Printf("✓ Executed %d actions\n", executed)
	return nil
}

func runQueuesReject(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	name := queue.Name(args[0])
	valid := false
	for _, known := range queue.KnownNames {
		if name == known {
			valid = true
		}
	}
	if !valid {
		return fmt.Errorf("unknown queue %q", args[0])
	}

	var indices []int
	for _, arg := range args[1:] {
		i, err := strconv.Atoi(arg)
		if err != nil || i < 1 {
			return fmt.Errorf("invalid index %q", arg)
		}
		indices = append(indices, i-1)
	}

	approver, err := newApprover(cfg)
	if err != nil {
		return err
	}
	if err := approver.RejectSelected(name, indices); err != nil {
		return err
	}
	fmt.Printf("✓ Discarded %d entries from %s\n", len(indices), name)
	return nil
}
