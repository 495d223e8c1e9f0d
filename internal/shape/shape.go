// Package shape groups shell commands by shape: the command with its
// variable arguments replaced by a wildcard, e.g. "git commit -m <*>".
//
// Commands are clustered with a fixed-depth parse tree. The first level
// splits on token count, the next levels on the leading tokens, and each
// leaf holds the shapes that share that prefix. A command joins the first
// shape at its leaf whose similarity reaches the threshold, and positions
// where the two differ become wildcards.
package shape

import (
	"cmp"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// Wildcard replaces the tokens that vary between commands of one shape.
const Wildcard = "<*>"

// Shape is one group of commands.
type Shape struct {
	Pattern  string   `json:"pattern" yaml:"pattern"`
	Count    int      `json:"count" yaml:"count"`
	Examples []string `json:"examples,omitempty" yaml:"examples,omitempty"`

	tokens []string
}

// Options tunes the parse tree.
type Options struct {
	// Depth is the tree depth including the length level. Depth-1 leading
	// tokens are used to route a command to its leaf.
	Depth int

	// Similarity is the fraction of equal positions needed to join a shape.
	Similarity float64

	// MaxChildren caps the branching of one node; further tokens are routed
	// through a wildcard child.
	MaxChildren int

	// MaxExamples is how many raw commands each shape keeps.
	MaxExamples int
}

// DefaultOptions returns the options NewMiner falls back to.
func DefaultOptions() Options {
	return Options{Depth: 4, Similarity: 0.5, MaxChildren: 100, MaxExamples: 3}
}

type node struct {
	children map[string]*node
	shapes   []*Shape
}

func newNode() *node {
	return &node{children: make(map[string]*node)}
}

// Miner accumulates commands into shapes. A Miner is not safe for
// concurrent use.
type Miner struct {
	opts   Options
	root   *node
	shapes []*Shape
}

// NewMiner creates a Miner. Zero or out-of-range fields take their default.
func NewMiner(opts Options) *Miner {
	def := DefaultOptions()
	if opts.Depth < 2 {
		opts.Depth = def.Depth
	}
	if opts.Similarity <= 0 || opts.Similarity > 1 {
		opts.Similarity = def.Similarity
	}
	if opts.MaxChildren <= 0 {
		opts.MaxChildren = def.MaxChildren
	}
	if opts.MaxExamples <= 0 {
		opts.MaxExamples = def.MaxExamples
	}
	return &Miner{opts: opts, root: newNode()}
}

// Add files command under its shape and returns that shape's pattern.
// Blank commands are ignored and return "".
func (m *Miner) Add(command string) string {
	tokens := strings.Fields(command)
	if len(tokens) == 0 {
		return ""
	}

	leaf := m.leaf(tokens)
	s := m.match(leaf, tokens)
	if s == nil {
		s = &Shape{tokens: generalize(tokens)}
		leaf.shapes = append(leaf.shapes, s)
		m.shapes = append(m.shapes, s)
	} else {
		s.tokens = merge(s.tokens, tokens)
	}

	s.Pattern = strings.Join(s.tokens, " ")
	s.Count++
	if len(s.Examples) < m.opts.MaxExamples {
		s.Examples = append(s.Examples, strings.TrimSpace(command))
	}
	return s.Pattern
}

// Len returns the number of shapes.
func (m *Miner) Len() int {
	return len(m.shapes)
}

// Top returns the n most common shapes, most common first, ties by pattern.
// n <= 0 returns all of them.
func (m *Miner) Top(n int) []Shape {
	out := make([]Shape, len(m.shapes))
	for i, s := range m.shapes {
		out[i] = Shape{Pattern: s.Pattern, Count: s.Count, Examples: slices.Clone(s.Examples)}
	}
	slices.SortFunc(out, func(a, b Shape) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return strings.Compare(a.Pattern, b.Pattern)
	})
	if n > 0 && n < len(out) {
		out = out[:n]
	}
	return out
}

// leaf walks the tree for tokens, creating nodes as needed. The last token
// never routes, so commands differing only in their final argument share a
// leaf.
func (m *Miner) leaf(tokens []string) *node {
	cur := child(m.root, "len_"+strconv.Itoa(len(tokens)))

	route := min(m.opts.Depth-1, len(tokens)-1)
	for _, tok := range tokens[:route] {
		if isVariable(tok) {
			tok = Wildcard
		}
		if _, ok := cur.children[tok]; !ok && len(cur.children) >= m.opts.MaxChildren {
			tok = Wildcard
		}
		cur = child(cur, tok)
	}
	return cur
}

func child(n *node, key string) *node {
	c, ok := n.children[key]
	if !ok {
		c = newNode()
		n.children[key] = c
	}
	return c
}

func (m *Miner) match(leaf *node, tokens []string) *Shape {
	for _, s := range leaf.shapes {
		if similarity(s.tokens, tokens) >= m.opts.Similarity {
			return s
		}
	}
	return nil
}

// similarity is the fraction of positions where the shape has a wildcard
// or the same token. Both sides have the same length, the tree's first
// level guarantees it.
func similarity(pattern, tokens []string) float64 {
	same := 0
	for i, p := range pattern {
		if p == Wildcard || p == tokens[i] || isVariable(tokens[i]) {
			same++
		}
	}
	return float64(same) / float64(len(pattern))
}

func merge(pattern, tokens []string) []string {
	out := make([]string, len(pattern))
	for i, p := range pattern {
		if p == tokens[i] {
			out[i] = p
		} else {
			out[i] = Wildcard
		}
	}
	return out
}

func generalize(tokens []string) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		if isVariable(t) {
			out[i] = Wildcard
		} else {
			out[i] = t
		}
	}
	return out
}

var variablePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^-?\d+(\.\d+)?$`),                                      // numbers
	regexp.MustCompile(`^0[xX][0-9a-fA-F]+$`),                                  // hex literals
	regexp.MustCompile(`^[0-9a-f]{7,40}$`),                                     // commit hashes
	regexp.MustCompile(`^\d{1,3}(\.\d{1,3}){3}(:\d+)?$`),                       // ipv4, optional port
	regexp.MustCompile(`^[0-9a-fA-F]{8}(-[0-9a-fA-F]{4}){3}-[0-9a-fA-F]{12}$`), // uuids
	regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`),                                   // dates
}

// isVariable reports whether tok looks like a value rather than part of
// the command: numbers, hashes, addresses, ids, dates and long paths.
func isVariable(tok string) bool {
	if tok == Wildcard {
		return true
	}
	if strings.HasPrefix(tok, "/") && len(tok) > 20 {
		return true
	}
	for _, re := range variablePatterns {
		if re.MatchString(tok) {
			return true
		}
	}
	return false
}
