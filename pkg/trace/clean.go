package trace

import (
	"regexp"
	"strings"
)

var (
	preBlockRegex  = regexp.MustCompile(`(?is)<pre>(.*?)</pre>`)
	lineBreakRegex = regexp.MustCompile(`(?i)<br\s*/?>`)
	markupRegex    = regexp.MustCompile(`<.*?>`)
	startRegex     = regexp.MustCompile(`(?i)traceroute to .*?,`)
)

//envelope is the JSON wrapper some looking glasses return instead of text
type envelope struct {
	Template interface{} `json:"Template"`
	Result   interface{} `json:"result"`
}

//Clean turns a raw looking glass response into plain traceroute text
func Clean(raw string) string {
	text := unwrapJSON(raw)

	if match := preBlockRegex.FindStringSubmatch(text); match != nil {
		text = match[1]
	}

	text = lineBreakRegex.ReplaceAllString(text, "\n")
	text = strings.Replace(text, "&nbsp;", " ", -1)
	text = markupRegex.ReplaceAllString(text, "")

	if loc := startRegex.FindStringIndex(text); loc != nil {
		text = text[loc[0]:]
	}
	return text
}

//unwrapJSON extracts the Template field, falling back to result. Responses
//that are not JSON objects are returned untouched.
func unwrapJSON(raw string) string {
	if !strings.HasPrefix(strings.TrimSpace(raw), "{") {
		return raw
	}
	var env envelope
	if err := json.Unmarshal([]byte(raw), &env); err != nil {
		return raw
	}
	if text, ok := env.Template.(string); ok && text != "" {
		return text
	}
	if text, ok := env.Result.(string); ok {
		return text
	}
	return ""
}
