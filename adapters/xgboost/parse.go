package xgboost

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Options controls how artifacts lacking metadata are interpreted.
type Options struct {
	// BaseScore applies to tree dumps, which do not record the global bias.
	BaseScore float64

	// FeatureNames resolves named splits in dumps that carry no name list.
	FeatureNames []string
}

var identityObjectives = map[string]bool{
	"":                     true,
	"reg:squarederror":     true,
	"reg:linear":           true,
	"reg:absoluteerror":    true,
	"reg:pseudohubererror": true,
	"reg:quantileerror":    true,
}

// Load reads a native JSON model or a JSON tree dump from disk.
func Load(path string, opts Options) (*Booster, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model artifact: %w", err)
	}
	b, err := Parse(data, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to parse model artifact %s: %w", path, err)
	}
	b.name = filepath.Base(path)
	return b, nil
}

// Parse detects the artifact layout and builds a Booster.
func Parse(data []byte, opts Options) (*Booster, error) {
	if !gjson.ValidBytes(data) {
		return nil, errors.New("malformed JSON")
	}
	root := gjson.ParseBytes(data)

	switch {
	case root.Get("learner").Exists():
		return parseNative(root.Get("learner"))
	case root.IsArray():
		return parseDump(root, opts.BaseScore, opts.FeatureNames)
	case root.Get("trees").IsArray():
		base := opts.BaseScore
		if bs := root.Get("base_score"); bs.Exists() {
			v, err := parseBaseScore(bs.String())
			if err != nil {
				return nil, err
			}
			base = v
		}
		names := opts.FeatureNames
		if fn := root.Get("feature_names"); fn.IsArray() {
			names = stringArray(fn)
		}
		b, err := parseDump(root.Get("trees"), base, names)
		if err != nil {
			return nil, err
		}
		if root.Get("feature_names").IsArray() {
			b.featureNames = names
		}
		return b, nil
	default:
		return nil, errors.New("unrecognised model layout: expected an XGBoost JSON model or tree dump")
	}
}

// parseNative reads the layout written by Booster.save_model("*.json").
func parseNative(learner gjson.Result) (*Booster, error) {
	objective := learner.Get("objective.name").String()
	if !identityObjectives[objective] {
		return nil, fmt.Errorf("unsupported objective %q", objective)
	}

	param := learner.Get("learner_model_param")
	if n := param.Get("num_class").Int(); n > 1 {
		return nil, fmt.Errorf("multi-class models are not supported (num_class=%d)", n)
	}
	if t := param.Get("num_target").Int(); t > 1 {
		return nil, fmt.Errorf("multi-target models are not supported (num_target=%d)", t)
	}
	baseScore, err := parseBaseScore(param.Get("base_score").String())
	if err != nil {
		return nil, err
	}
	numFeature := int(param.Get("num_feature").Int())
	if numFeature <= 0 {
		return nil, errors.New("learner_model_param.num_feature missing")
	}

	gbm := learner.Get("gradient_booster")
	if name := gbm.Get("name").String(); name != "gbtree" {
		return nil, fmt.Errorf("unsupported booster %q", name)
	}
	rawTrees := gbm.Get("model.trees")
	if !rawTrees.IsArray() {
		return nil, errors.New("gradient_booster.model.trees missing")
	}

	b := &Booster{
		baseScore:    float32(baseScore),
		numFeature:   numFeature,
		featureNames: stringArray(learner.Get("feature_names")),
	}
	for i, rt := range rawTrees.Array() {
		t, err := nativeTree(rt, numFeature)
		if err != nil {
			return nil, fmt.Errorf("tree %d: %w", i, err)
		}
		b.trees = append(b.trees, t)
	}
	return b, nil
}

func nativeTree(rt gjson.Result, numFeature int) (tree, error) {
	left := intArray(rt.Get("left_children"))
	right := intArray(rt.Get("right_children"))
	splits := intArray(rt.Get("split_indices"))
	conds := floatArray(rt.Get("split_conditions"))
	defaults := rt.Get("default_left").Array()

	n := len(left)
	if n == 0 {
		return tree{}, errors.New("empty tree")
	}
	if len(right) != n || len(splits) != n || len(conds) != n || len(defaults) != n {
		return tree{}, errors.New("tree arrays have mismatched lengths")
	}
	for _, st := range rt.Get("split_type").Array() {
		if st.Int() != 0 {
			return tree{}, errors.New("categorical splits are not supported")
		}
	}

	nodes := make([]node, n)
	for i := 0; i < n; i++ {
		if left[i] == -1 {
			nodes[i] = node{feature: -1, left: -1, right: -1, missing: -1, value: float32(conds[i])}
			continue
		}
		if splits[i] < 0 || splits[i] >= numFeature {
			return tree{}, fmt.Errorf("node %d splits on feature %d outside [0,%d)", i, splits[i], numFeature)
		}
		for _, child := range []int{left[i], right[i]} {
			if child <= 0 || child >= n || child == i {
				return tree{}, fmt.Errorf("node %d has child %d outside (0,%d)", i, child, n)
			}
		}
		missing := right[i]
		if defaults[i].Bool() {
			missing = left[i]
		}
		nodes[i] = node{
			feature:   splits[i],
			threshold: float32(conds[i]),
			left:      left[i],
			right:     right[i],
			missing:   missing,
		}
	}
	t := tree{nodes: nodes}
	if err := t.check(); err != nil {
		return tree{}, err
	}
	return t, nil
}

type dumpNode struct {
	id        int64
	feature   int
	threshold float64
	yes       int64
	no        int64
	missing   int64
	leaf      bool
	value     float64
}

// parseDump reads the nested layout written by dump_model(dump_format="json").
func parseDump(rawTrees gjson.Result, baseScore float64, names []string) (*Booster, error) {
	b := &Booster{baseScore: float32(baseScore), numFeature: len(names)}
	maxFeature := -1
	for i, rt := range rawTrees.Array() {
		var flat []dumpNode
		if err := flattenDump(rt, names, &flat); err != nil {
			return nil, fmt.Errorf("tree %d: %w", i, err)
		}
		t, err := linkDump(flat)
		if err != nil {
			return nil, fmt.Errorf("tree %d: %w", i, err)
		}
		for _, n := range t.nodes {
			if n.feature > maxFeature {
				maxFeature = n.feature
			}
		}
		b.trees = append(b.trees, t)
	}
	if len(b.trees) == 0 {
		return nil, errors.New("dump contains no trees")
	}
	switch {
	case b.numFeature == 0:
		b.numFeature = maxFeature + 1
	case maxFeature >= b.numFeature:
		return nil, fmt.Errorf("split on feature %d but only %d features are named", maxFeature, b.numFeature)
	}
	return b, nil
}

func flattenDump(n gjson.Result, names []string, out *[]dumpNode) error {
	id := n.Get("nodeid")
	if !id.Exists() {
		return errors.New("node without nodeid")
	}
	if leaf := n.Get("leaf"); leaf.Exists() {
		*out = append(*out, dumpNode{id: id.Int(), leaf: true, value: leaf.Float()})
		return nil
	}

	feature, err := featureIndex(n.Get("split").String(), names)
	if err != nil {
		return fmt.Errorf("node %d: %w", id.Int(), err)
	}
	d := dumpNode{
		id:        id.Int(),
		feature:   feature,
		threshold: n.Get("split_condition").Float(),
		yes:       n.Get("yes").Int(),
		no:        n.Get("no").Int(),
		missing:   n.Get("yes").Int(),
	}
	if m := n.Get("missing"); m.Exists() {
		d.missing = m.Int()
	}
	*out = append(*out, d)

	children := n.Get("children").Array()
	if len(children) == 0 {
		return fmt.Errorf("split node %d has no children", d.id)
	}
	for _, c := range children {
		if err := flattenDump(c, names, out); err != nil {
			return err
		}
	}
	return nil
}

// linkDump converts node ids to slice positions. The root comes first.
func linkDump(flat []dumpNode) (tree, error) {
	pos := make(map[int64]int, len(flat))
	for i, d := range flat {
		if _, dup := pos[d.id]; dup {
			return tree{}, fmt.Errorf("duplicate nodeid %d", d.id)
		}
		pos[d.id] = i
	}
	lookup := func(id int64) (int, error) {
		p, ok := pos[id]
		if !ok {
			return 0, fmt.Errorf("reference to unknown nodeid %d", id)
		}
		return p, nil
	}

	nodes := make([]node, len(flat))
	for i, d := range flat {
		if d.leaf {
			nodes[i] = node{feature: -1, left: -1, right: -1, missing: -1, value: float32(d.value)}
			continue
		}
		yes, err := lookup(d.yes)
		if err != nil {
			return tree{}, err
		}
		no, err := lookup(d.no)
		if err != nil {
			return tree{}, err
		}
		missing, err := lookup(d.missing)
		if err != nil {
			return tree{}, err
		}
		nodes[i] = node{feature: d.feature, threshold: float32(d.threshold), left: yes, right: no, missing: missing}
	}
	t := tree{nodes: nodes}
	if err := t.check(); err != nil {
		return tree{}, err
	}
	return t, nil
}

// check walks every branch from the root and fails unless each path ends in a
// leaf without revisiting a node.
func (t tree) check() error {
	seen := make([]bool, len(t.nodes))
	stack := []int{0}
	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if idx < 0 || idx >= len(t.nodes) {
			return fmt.Errorf("branch to node %d outside the tree", idx)
		}
		if seen[idx] {
			return fmt.Errorf("node %d is reachable more than once", idx)
		}
		seen[idx] = true

		n := t.nodes[idx]
		if n.isLeaf() {
			continue
		}
		if n.missing != n.left && n.missing != n.right {
			return fmt.Errorf("node %d sends missing values to %d, which is not one of its children", idx, n.missing)
		}
		if n.left == n.right {
			return fmt.Errorf("node %d has identical children", idx)
		}
		stack = append(stack, n.left, n.right)
	}
	return nil
}

// featureIndex resolves "f3" style splits, falling back to the name list.
func featureIndex(split string, names []string) (int, error) {
	if strings.HasPrefix(split, "f") {
		if idx, err := strconv.Atoi(split[1:]); err == nil && idx >= 0 {
			return idx, nil
		}
	}
	for i, name := range names {
		if strings.EqualFold(name, split) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown split feature %q", split)
}

// parseBaseScore accepts "0.5", "8.95E1" and the bracketed "[8.95E1]" form
// written by XGBoost 2.1+.
func parseBaseScore(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(strings.TrimPrefix(s, "["), "]")
	if s == "" {
		return 0, errors.New("base_score missing")
	}
	if i := strings.IndexByte(s, ','); i >= 0 {
		return 0, fmt.Errorf("vector base_score %q is not supported", s)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid base_score %q: %w", s, err)
	}
	return v, nil
}

func intArray(r gjson.Result) []int {
	items := r.Array()
	out := make([]int, len(items))
	for i, it := range items {
		out[i] = int(it.Int())
	}
	return out
}

func floatArray(r gjson.Result) []float64 {
	items := r.Array()
	out := make([]float64, len(items))
	for i, it := range items {
		out[i] = it.Float()
	}
	return out
}

func stringArray(r gjson.Result) []string {
	if !r.IsArray() {
		return nil
	}
	items := r.Array()
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.String()
	}
	return out
}
