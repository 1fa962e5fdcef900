// Vesta is a rule-driven file organizer daemon.
//
// It watches directories for new files, classifies each file with the
// help of a local AI collaborator, evaluates user-defined rules and
// queues the resulting actions for explicit approval.
//
// Usage:
//
//	# Start the watcher daemon
//	vesta run
//
//	# Start with a custom configuration file
//	vesta run --config /path/to/config.yaml
//
//	# Manage sorting rules
//	vesta rules list
//	vesta rules add --natural "move all PDFs to ~/Documents"
//	vesta rules pop
//
//	# Review and approve queued actions
//	vesta queues list
//	vesta queues approve
//
//	# Show recent routing decisions
//	vesta history
package main

func main() {
	Execute()
}
