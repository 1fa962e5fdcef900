package watch

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"tidy-hq/vesta/pkg/classify"
)

const titleMaxLen = 50

var unsafeChars = strings.NewReplacer(
	`\`, "_", "/", "_", ":", "_", "*", "_", "?", "_",
	`"`, "_", "<", "_", ">", "_", "|", "_", " ", "_",
)

// sanitizeTitle makes a window title safe to embed in a filename:
// filesystem-reserved characters and spaces become underscores and the
// result is capped at 50 characters.
func sanitizeTitle(title string) string {
	clean := unsafeChars.Replace(title)
	if utf8.RuneCountInString(clean) > titleMaxLen {
		runes := []rune(clean)
		clean = string(runes[:titleMaxLen])
	}
	return clean
}

// taggedName builds the provenance-tagged filename for path:
// base_APP-{process}_TITLE-{title}{ext}.
func taggedName(path string, win classify.WindowInfo) string {
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(filepath.Base(path), ext)
	return fmt.Sprintf("%s_APP-%s_TITLE-%s%s",
		base, win.ProcessName, sanitizeTitle(win.WindowTitle), ext)
}
