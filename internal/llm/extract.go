package llm

import "strings"

// PromptPrefix marks an inline instruction in composed text, e.g.
// "/aw: write a short reply". Text without the marker is used as the
// prompt verbatim.
const PromptPrefix = "/aw:"

// ExtractPrompt scans text for the prompt marker and returns the
// trimmed instruction between the marker and the next line break (or
// end of text). It reports false when the marker is absent or the
// instruction is empty after trimming.
func ExtractPrompt(text string) (string, bool) {
	idx := strings.Index(text, PromptPrefix)
	if idx < 0 {
		return "", false
	}

	rest := text[idx+len(PromptPrefix):]
	rest = strings.TrimLeft(rest, " ")

	if end := strings.IndexByte(rest, '\n'); end >= 0 {
		rest = rest[:end]
	}

	prompt := strings.TrimSpace(rest)
	return prompt, prompt != ""
}

// ExtractQuotedOriginal heuristically locates a quoted-reply block by
// looking for a reply attribution ("On ") or a leading quote marker
// ("> ") and returns everything from the first match to the end of the
// text. This is best-effort, not a full email-quote parser.
func ExtractQuotedOriginal(text string) (string, bool) {
	idx := strings.Index(text, "On ")
	if idx < 0 {
		idx = strings.Index(text, "> ")
	}
	if idx < 0 {
		return "", false
	}
	return text[idx:], true
}

// SenderInfo is the display name and address recovered from a From
// header line.
type SenderInfo struct {
	Name    string
	Address string
}

// ExtractSenderInfo heuristically parses a "From:" line out of raw
// header text. An angle-bracket address yields both name and address;
// a bare value containing "@" is treated as the address with an
// "Unknown" placeholder name.
func ExtractSenderInfo(headers string) (SenderInfo, bool) {
	idx := strings.Index(headers, "From:")
	if idx < 0 {
		return SenderInfo{}, false
	}

	line := headers[idx+len("From:"):]
	if end := strings.IndexByte(line, '\n'); end >= 0 {
		line = line[:end]
	}
	line = strings.TrimSpace(line)

	if open := strings.IndexByte(line, '<'); open >= 0 {
		close := strings.IndexByte(line[open:], '>')
		if close < 0 {
			return SenderInfo{}, false
		}
		return SenderInfo{
			Name:    strings.TrimSpace(line[:open]),
			Address: line[open+1 : open+close],
		}, true
	}

	if strings.ContainsRune(line, '@') {
		return SenderInfo{Name: "Unknown", Address: line}, true
	}

	return SenderInfo{}, false
}
