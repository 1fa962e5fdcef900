package rules

// ActionType identifies the operation a rule requests for a matched file.
type ActionType string

const (
	// ActionMove stages the file for relocation to a resolved target path.
	ActionMove ActionType = "move"

	// ActionCopy stages a copy of the file at a resolved target path.
	ActionCopy ActionType = "copy"

	// ActionDelete schedules the file for deletion after a retention period.
	ActionDelete ActionType = "delete"

	// ActionEncrypt queues the file for encryption.
	ActionEncrypt ActionType = "encrypt"

	// ActionDecrypt queues the file for decryption.
	ActionDecrypt ActionType = "decrypt"

	// ActionCompress queues the file for archiving.
	ActionCompress ActionType = "compress"

	// ActionExtract queues the archive for extraction.
	ActionExtract ActionType = "extract"

	// ActionNone is the default when no rule matches.
	ActionNone ActionType = "no_action"
)

// Valid reports whether t is one of the known action types.
func (t ActionType) Valid() bool {
	switch t {
	case ActionMove, ActionCopy, ActionDelete, ActionEncrypt,
		ActionDecrypt, ActionCompress, ActionExtract, ActionNone:
		return true
	}
	return false
}

// Action is the operation side of a rule. TargetPath may contain
// {variable} placeholders resolved against the file's context; Time is
// the retention period for delete actions (e.g. "3 days").
type Action struct {
	Type       ActionType `json:"type"`
	TargetPath string     `json:"target_path,omitempty"`
	Time       string     `json:"time,omitempty"`
}

// Rule pairs a condition expression with an action. Rules are unordered
// in storage and evaluated in descending priority order; storage order
// breaks ties.
type Rule struct {
	Condition string `json:"condition"`
	Action    Action `json:"action"`
	Priority  int    `json:"priority,omitempty"`
}

// EffectivePriority returns the rule's priority, defaulting to 1 when
// unset.
func (r *Rule) EffectivePriority() int {
	if r.Priority == 0 {
		return 1
	}
	return r.Priority
}
