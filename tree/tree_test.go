package tree

import (
	"bytes"
	"context"
	"math"
	"strings"
	"testing"

	"github.com/pbanos/sapling/dataset"
	"github.com/pbanos/sapling/feature"
	"github.com/pbanos/sapling/split"
)

var (
	first  = feature.NewNumericFeature("First")
	second = feature.NewCategoricalFeature("Second", []string{"one", "three", "two"})
	label  = feature.NewCategoricalFeature("Prediction", []string{"0", "1"})
)

// grownStore returns a node store with the tree grown from the 10 row
// fixture, with nodes created breadth first as the grower does.
func grownStore(t *testing.T) (NodeStore, int) {
	t.Helper()
	ctx := context.Background()
	ns := NewMemoryNodeStore()
	root := NewNode(NoNode, 0, 0, 10)
	root.Counts = [2]int{4, 6}
	ns.Create(ctx, root)
	left := NewNode(root.ID, 1, 0, 3)
	left.Counts = [2]int{3, 0}
	right := NewNode(root.ID, 1, 3, 10)
	right.Counts = [2]int{1, 6}
	ns.Create(ctx, left)
	ns.Create(ctx, right)
	root.Split = &split.Split{Column: 1, Kind: split.CategoricalSubset, LeftLevels: split.NewLevelSet(2), RightLevels: split.NewLevelSet(0, 1)}
	root.LeftID, root.RightID, root.Resolved = left.ID, right.ID, true
	left.MakeLeaf()
	rl := NewNode(right.ID, 2, 3, 8)
	rl.Counts = [2]int{0, 5}
	rr := NewNode(right.ID, 2, 8, 10)
	rr.Counts = [2]int{1, 1}
	ns.Create(ctx, rl)
	ns.Create(ctx, rr)
	right.Split = &split.Split{Column: 0, Kind: split.NumericThreshold, Threshold: 7.5}
	right.LeftID, right.RightID, right.Resolved = rl.ID, rr.ID, true
	rl.MakeLeaf()
	rr.MakeLeaf()
	return ns, root.ID
}

func fixtureTree(t *testing.T) *Tree {
	t.Helper()
	ns, rootID := grownStore(t)
	records, err := Compress(context.Background(), ns, rootID)
	if err != nil {
		t.Fatalf("compressing: %v", err)
	}
	tr, err := New(records, []feature.Feature{first, second}, label)
	if err != nil {
		t.Fatalf("building tree: %v", err)
	}
	return tr
}

func TestCompressIsPreOrder(t *testing.T) {
	tr := fixtureTree(t)
	expected := []struct {
		kind        RecordKind
		left, right int
		class       int
	}{
		{DecisionRecord, 1, 2, 0},
		{LeafRecord, 0, 0, 0},
		{DecisionRecord, 3, 4, 0},
		{LeafRecord, 0, 0, 1},
		{LeafRecord, 0, 0, 0},
	}
	if len(tr.Records) != len(expected) {
		t.Fatalf("expected %d records, got %d", len(expected), len(tr.Records))
	}
	for i, e := range expected {
		r := tr.Records[i]
		if r.Kind != e.kind || r.Left != e.left || r.Right != e.right || r.Class != e.class {
			t.Errorf("record %d: expected %+v, got %+v", i, e, r)
		}
	}
	if tr.Leaves() != 3 || tr.Depth() != 2 {
		t.Errorf("expected 3 leaves and depth 2, got %d and %d", tr.Leaves(), tr.Depth())
	}
}

func TestCompressRejectsUnresolvedNodes(t *testing.T) {
	ctx := context.Background()
	ns := NewMemoryNodeStore()
	n := NewNode(NoNode, 0, 0, 1)
	ns.Create(ctx, n)
	if _, err := Compress(ctx, ns, n.ID); err == nil {
		t.Errorf("expected an error for an unresolved node")
	}
	if _, err := Compress(ctx, ns, 42); err == nil {
		t.Errorf("expected an error for a missing node")
	}
}

func TestPredictAndExplain(t *testing.T) {
	tr := fixtureTree(t)
	firsts := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	seconds := []float64{2, 0, 1, 2, 2, 0, 0, 0, 1, 1}
	expected := []int{0, 1, 1, 0, 0, 1, 1, 1, 0, 0}
	for i := range firsts {
		c, err := tr.Predict(dataset.Row{firsts[i], seconds[i]})
		if err != nil {
			t.Fatalf("predicting row %d: %v", i, err)
		}
		if c != expected[i] {
			t.Errorf("row %d: expected class %d, got %d", i, expected[i], c)
		}
	}
	conditions, c, err := tr.Explain(dataset.Row{8, 1})
	if err != nil {
		t.Fatalf("explaining: %v", err)
	}
	trail := strings.Join(conditions, "; ")
	if trail != "Second in {one, three}; First >= 7.5" || c != 0 {
		t.Errorf("unexpected explanation %q -> %d", trail, c)
	}
	p, _ := tr.Probability(dataset.Row{8, 1})
	if p != 0.5 {
		t.Errorf("expected probability 0.5, got %v", p)
	}
	if _, err = tr.Predict(dataset.Row{1}); err != ErrRowLength {
		t.Errorf("expected ErrRowLength, got %v", err)
	}
}

func TestUnseenLevelPolicies(t *testing.T) {
	tr := fixtureTree(t)
	row := dataset.Row{1, feature.UnknownLevel}
	conditions, c, err := tr.Explain(row)
	if err != nil {
		t.Fatalf("explaining: %v", err)
	}
	if conditions[0] != "Second not in {one, three, two}" || c != 1 {
		t.Errorf("expected unseen levels to go right by default, got %v -> %d", conditions, c)
	}
	tr.Unseen = RouteLeft
	if c, _ = tr.Predict(row); c != 0 {
		t.Errorf("expected unseen level routed left to predict 0, got %d", c)
	}
	tr.Unseen = RouteMajority
	if i, _ := tr.Leaf(row); i != 3 {
		t.Errorf("expected unseen level routed to the larger child, got leaf %d", i)
	}
	if p, err := UnseenLevelPolicyNamed("majority"); err != nil || p != RouteMajority {
		t.Errorf("expected majority policy, got %v %v", p, err)
	}
	if _, err := UnseenLevelPolicyNamed("random"); err == nil {
		t.Errorf("expected an error for an unknown policy")
	}
}

func TestBinaryEncodingRoundTrip(t *testing.T) {
	tr := fixtureTree(t)
	tr.Unseen = RouteMajority
	data, err := tr.MarshalBinary()
	if err != nil {
		t.Fatalf("encoding: %v", err)
	}
	decoded := &Tree{Features: tr.Features, Label: tr.Label}
	if err = decoded.UnmarshalBinary(data); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if decoded.Unseen != RouteMajority || len(decoded.Records) != len(tr.Records) {
		t.Fatalf("unexpected decoded tree %v", decoded)
	}
	again, _ := decoded.MarshalBinary()
	if !bytes.Equal(data, again) {
		t.Errorf("expected re-encoding to give the same bytes")
	}
	for _, corrupt := range [][]byte{nil, []byte("SAPT"), data[:len(data)-3], append(append([]byte{}, data...), 0)} {
		if err = (&Tree{}).UnmarshalBinary(corrupt); err == nil {
			t.Errorf("expected an error decoding %d bytes", len(corrupt))
		}
	}
}

func TestDecompressIsIdempotent(t *testing.T) {
	ctx := context.Background()
	tr := fixtureTree(t)
	ns := NewMemoryNodeStore()
	rootID, err := Decompress(ctx, tr.Records, ns)
	if err != nil {
		t.Fatalf("decompressing: %v", err)
	}
	records, err := Compress(ctx, ns, rootID)
	if err != nil {
		t.Fatalf("compressing: %v", err)
	}
	again := &Tree{Records: records}
	a, _ := tr.MarshalBinary()
	b, _ := again.MarshalBinary()
	if !bytes.Equal(a, b) {
		t.Errorf("expected decompressing and compressing to give the same records")
	}
	n, _ := ns.Count(ctx)
	if n != len(records) {
		t.Errorf("expected %d nodes, got %d", len(records), n)
	}
}

func TestValidate(t *testing.T) {
	leaf := Record{Kind: LeafRecord}
	cases := map[string][]Record{
		"empty":           nil,
		"backward child":  {{Kind: DecisionRecord, Left: 0, Right: 1}, leaf},
		"shared child":    {{Kind: DecisionRecord, Left: 1, Right: 1}, leaf},
		"orphan":          {leaf, leaf},
		"bad class":       {{Kind: LeafRecord, Class: 2}},
		"missing feature": {{Kind: DecisionRecord, Column: 5, Left: 1, Right: 2}, leaf, leaf},
		"wrong kind":      {{Kind: DecisionRecord, Column: 0, SplitKind: split.CategoricalSubset, Left: 1, Right: 2}, leaf, leaf},
	}
	for name, records := range cases {
		if _, err := New(records, []feature.Feature{first, second}, label); err == nil {
			t.Errorf("%s: expected a validation error", name)
		}
	}
	featureless := map[string]*Tree{
		"unknown split kind": {Records: []Record{{Kind: DecisionRecord, SplitKind: split.Kind(9), Left: 1, Right: 2}, leaf, leaf}},
		"NaN threshold":      {Records: []Record{{Kind: DecisionRecord, Threshold: math.NaN(), Left: 1, Right: 2}, leaf, leaf}},
		"unknown policy":     {Records: []Record{leaf}, Unseen: UnseenLevelPolicy(7)},
	}
	for name, tr := range featureless {
		if err := tr.Validate(); err == nil {
			t.Errorf("%s: expected a validation error without features", name)
		}
	}
}

func TestBinaryDecodingRejectsUnknownEnums(t *testing.T) {
	data, err := fixtureTree(t).MarshalBinary()
	if err != nil {
		t.Fatalf("encoding: %v", err)
	}
	cases := map[string]int{
		// magic, version
		"policy": 4 + 2,
		// header, record kind, class
		"root split kind": 4 + 2 + 1 + 4 + 1 + 1,
	}
	for name, offset := range cases {
		corrupt := append([]byte{}, data...)
		corrupt[offset] = 7
		if err = (&Tree{}).UnmarshalBinary(corrupt); err == nil {
			t.Errorf("expected an error decoding an unknown %s", name)
		}
	}
}

func TestRulesAndString(t *testing.T) {
	tr := fixtureTree(t)
	rules := tr.Rules()
	expected := []string{
		"if Second in {two} then 0 (3/3)",
		"if Second in {one, three} and First < 7.5 then 1 (5/5)",
		"if Second in {one, three} and First >= 7.5 then 0 (1/2)",
	}
	if len(rules) != len(expected) {
		t.Fatalf("expected %d rules, got %v", len(expected), rules)
	}
	for i := range rules {
		if rules[i] != expected[i] {
			t.Errorf("rule %d: expected %q, got %q", i, expected[i], rules[i])
		}
	}
	s := tr.String()
	for _, part := range []string{"[0]", "|__[2]", "{ First >= 7.5 }", "{ 1 [0 5] }"} {
		if !strings.Contains(s, part) {
			t.Errorf("expected %q in\n%s", part, s)
		}
	}
	var visited []int
	tr.Traverse(context.Background(), true, func(ctx context.Context, i int, r *Record) error {
		visited = append(visited, i)
		return nil
	})
	if len(visited) != 5 || visited[4] != 0 || visited[0] != 1 {
		t.Errorf("unexpected bottom up traversal %v", visited)
	}
}

func TestResolveAsksOnlyForTestedColumns(t *testing.T) {
	tr := fixtureTree(t)
	var asked []int
	leaf, conditions, err := tr.Resolve(func(col int) (float64, error) {
		asked = append(asked, col)
		return 2, nil
	})
	if err != nil {
		t.Fatalf("resolving: %v", err)
	}
	if len(asked) != 1 || asked[0] != 1 || !tr.Records[leaf].Leaf() || tr.Records[leaf].Class != 0 {
		t.Errorf("expected a single question about Second leading to class 0, asked %v, reached %d", asked, leaf)
	}
	if len(conditions) != 1 || conditions[0] != "Second in {two}" {
		t.Errorf("unexpected conditions %v", conditions)
	}
}
