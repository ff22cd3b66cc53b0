package sanitize

import (
	"regexp"
	"strings"
)

// Wrapper elements the harness puts around a slash-command or skill turn.
// Only a run of them at the very start of a turn is unwrapped; the same tags
// written inside prose are the user's own text.
var envelopeElements = func() []*regexp.Regexp {
	tags := []string{
		"command-message",
		"command-name",
		"command-args",
		"command-output",
		"skill-name",
		"plugin-id",
		"task-id",
	}
	res := make([]*regexp.Regexp, 0, len(tags))
	for _, tag := range tags {
		res = append(res, regexp.MustCompile(`(?s)^<`+tag+`(?:\s[^>]*)?>(.*?)</`+tag+`>`))
	}
	return res
}()

// Elements whose body the harness writes, not the user. Dropped with their
// content. RE2 has no backreferences, so one pattern per tag.
var injectedElements = func() []*regexp.Regexp {
	tags := []string{
		"system-reminder",
		"local-command-caveat",
		"local-command-stdout",
		"local-command-stderr",
		"persisted-output",
		"task-notification",
	}
	res := make([]*regexp.Regexp, 0, len(tags))
	for _, tag := range tags {
		res = append(res, regexp.MustCompile(`(?s)<`+tag+`(?:\s[^>]*)?>.*?</`+tag+`>`))
	}
	return res
}()

// Text the harness writes into user turns on its own.
var sideChannelPrefixes = []string{
	"[Request interrupted by user",
	"Caveat: The messages below were generated by the user while running local commands.",
	"This session is being continued from a previous conversation",
}

// UnwrapEnvelope replaces the leading run of harness wrapper elements with
// their contents, one per line. Text without such a prefix is only trimmed.
func UnwrapEnvelope(text string) string {
	text = strings.TrimSpace(text)

	var parts []string
	for {
		content, rest, ok := leadingEnvelope(text)
		if !ok {
			break
		}
		if content != "" {
			parts = append(parts, content)
		}
		text = strings.TrimSpace(rest)
	}

	if text != "" {
		parts = append(parts, text)
	}
	return strings.Join(parts, "\n")
}

func leadingEnvelope(text string) (content, rest string, ok bool) {
	for _, re := range envelopeElements {
		if m := re.FindStringSubmatchIndex(text); m != nil {
			return strings.TrimSpace(text[m[2]:m[3]]), text[m[1]:], true
		}
	}
	return "", "", false
}

// StripInjected removes harness-injected elements, content included.
func StripInjected(text string) string {
	for _, re := range injectedElements {
		text = re.ReplaceAllString(text, "")
	}
	return text
}

// UserText reduces a user turn to what the user wrote: injected elements go,
// a leading command envelope is unwrapped and surrounding whitespace is
// trimmed. Everything else is kept verbatim.
func UserText(text string) string {
	return UnwrapEnvelope(StripInjected(text))
}

// IsSideChannel reports whether text was generated by the harness rather
// than typed by the user.
func IsSideChannel(text string) bool {
	text = strings.TrimSpace(text)
	for _, p := range sideChannelPrefixes {
		if strings.HasPrefix(text, p) {
			return true
		}
	}
	return false
}
