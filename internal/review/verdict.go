package review

import (
	"fmt"
	"strings"

	"github.com/valyala/fastjson"

	"github.com/bimmerbailey/histshrink/internal/llm"
)

// Verdict is the model's judgement of one flagged command.
type Verdict struct {
	Command string `json:"command" yaml:"command"`
	Verdict string `json:"verdict" yaml:"verdict"`
	Reason  string `json:"reason" yaml:"reason"`
}

var parsers fastjson.ParserPool

// ParseVerdicts extracts verdicts from a model reply. Small models wrap JSON
// in markdown fences or return a single object, or an object holding a
// "verdicts" array; all three are accepted. Verdict names are upper-cased.
func ParseVerdicts(content string) ([]Verdict, error) {
	body := stripFences(content)

	p := parsers.Get()
	defer parsers.Put(p)

	v, err := p.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", llm.ErrInvalidResponse, err)
	}

	var items []*fastjson.Value
	switch v.Type() {
	case fastjson.TypeArray:
		items, _ = v.Array()
	case fastjson.TypeObject:
		if arr := v.GetArray("verdicts"); arr != nil {
			items = arr
		} else {
			items = []*fastjson.Value{v}
		}
	default:
		return nil, fmt.Errorf("%w: expected a JSON array, got %s", llm.ErrInvalidResponse, v.Type())
	}

	verdicts := make([]Verdict, 0, len(items))
	for _, item := range items {
		if item.Type() != fastjson.TypeObject {
			continue
		}
		verdicts = append(verdicts, Verdict{
			Command: string(item.GetStringBytes("command")),
			Verdict: strings.ToUpper(string(item.GetStringBytes("verdict"))),
			Reason:  string(item.GetStringBytes("reason")),
		})
	}
	return verdicts, nil
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
