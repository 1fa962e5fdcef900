// Package condition implements the restricted boolean expression
// language used in rule conditions.
//
// The language covers variable references, string/number/bool literals,
// equality and inequality, boolean connectives (and/or/not, with &&, ||
// and ! as synonyms) and parentheses, nothing else. There is no
// function call syntax, no ambient environment and no escape hatch into
// general evaluation; an expression can only read the variable map it
// is handed.
//
// Typical conditions:
//
//	filetype == 'png'
//	category == "meme" and source_app != 'chrome.exe'
//	not (source_category == 'game' or filetype == 'mp4')
package condition
