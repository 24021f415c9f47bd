package reference

import (
	"fmt"
	"math/bits"
	"slices"

	"github.com/dd0wney/cluso-orbitcount/pkg/engine"
)

// nodeSignature identifies a node orbit by degree invariants of the graphlet
// and of the node. For graphlets of up to five nodes these invariants tell
// every orbit apart, so the baseline needs no isomorphism test.
type nodeSignature struct {
	degrees   string // graphlet degree sequence, descending
	triangles int
	degree    int
	neighbors string // degrees of the node's neighbours, ascending
}

// edgeSignature identifies an edge orbit the same way.
type edgeSignature struct {
	degrees   string
	triangles int
	ends      string // endpoint degrees, ascending
	common    int    // neighbours shared by both endpoints
}

// shape is the subgraph induced by one sorted node set.
type shape struct {
	k   int
	adj [engine.MaxGraphletNodes]uint8 // bit j of adj[i] is set when i and j are adjacent
}

func induced(set []int, edgeAt map[[2]int]int) *shape {
	s := &shape{k: len(set)}
	for i := range set {
		for j := i + 1; j < len(set); j++ {
			if _, ok := edgeAt[[2]int{set[i], set[j]}]; ok {
				s.adj[i] |= 1 << j
				s.adj[j] |= 1 << i
			}
		}
	}
	return s
}

func (s *shape) adjacent(i, j int) bool { return s.adj[i]&(1<<j) != 0 }

func (s *shape) degree(i int) int { return bits.OnesCount8(s.adj[i]) }

// summary returns the degree sequence and triangle count of the shape.
func (s *shape) summary() (string, int) {
	deg := make([]int, s.k)
	triangles := 0
	for i := 0; i < s.k; i++ {
		deg[i] = s.degree(i)
		for j := i + 1; j < s.k; j++ {
			if s.adjacent(i, j) {
				triangles += bits.OnesCount8(s.adj[i] & s.adj[j] & (^uint8(0) << (j + 1)))
			}
		}
	}
	slices.Sort(deg)
	slices.Reverse(deg)
	return digits(deg), triangles
}

func (s *shape) nodeSignature(degrees string, triangles, i int) nodeSignature {
	var nbr []int
	for j := 0; j < s.k; j++ {
		if s.adjacent(i, j) {
			nbr = append(nbr, s.degree(j))
		}
	}
	slices.Sort(nbr)
	return nodeSignature{degrees: degrees, triangles: triangles, degree: s.degree(i), neighbors: digits(nbr)}
}

func (s *shape) edgeSignature(degrees string, triangles, i, j int) edgeSignature {
	ends := []int{s.degree(i), s.degree(j)}
	slices.Sort(ends)
	return edgeSignature{
		degrees:   degrees,
		triangles: triangles,
		ends:      digits(ends),
		common:    bits.OnesCount8(s.adj[i] & s.adj[j]),
	}
}

func digits(ds []int) string {
	b := make([]byte, len(ds))
	for i, d := range ds {
		b[i] = byte('0' + d)
	}
	return string(b)
}

func nodeOrbit(sig nodeSignature) (int, error) {
	o, ok := nodeOrbitTable[sig]
	if !ok {
		return 0, fmt.Errorf("reference: no node orbit for %+v", sig)
	}
	return o, nil
}

func edgeOrbit(sig edgeSignature) (int, error) {
	o, ok := edgeOrbitTable[sig]
	if !ok {
		return 0, fmt.Errorf("reference: no edge orbit for %+v", sig)
	}
	return o, nil
}

// Node orbits 0-72 and edge orbits 0-67 as ORCA numbers them.
var nodeOrbitTable = map[nodeSignature]int{
	{"11", 0, 1, "1"}:        0,
	{"211", 0, 1, "2"}:       1,
	{"211", 0, 2, "11"}:      2,
	{"222", 1, 2, "22"}:      3,
	{"2211", 0, 1, "2"}:      4,
	{"2211", 0, 2, "12"}:     5,
	{"3111", 0, 1, "3"}:      6,
	{"3111", 0, 3, "111"}:    7,
	{"2222", 0, 2, "22"}:     8,
	{"3221", 1, 1, "3"}:      9,
	{"3221", 1, 2, "23"}:     10,
	{"3221", 1, 3, "122"}:    11,
	{"3322", 2, 2, "33"}:     12,
	{"3322", 2, 3, "223"}:    13,
	{"3333", 4, 3, "333"}:    14,
	{"22211", 0, 1, "2"}:     15,
	{"22211", 0, 2, "12"}:    16,
	{"22211", 0, 2, "22"}:    17,
	{"32111", 0, 1, "2"}:     18,
	{"32111", 0, 1, "3"}:     19,
	{"32111", 0, 2, "13"}:    20,
	{"32111", 0, 3, "112"}:   21,
	{"41111", 0, 1, "4"}:     22,
	{"41111", 0, 4, "1111"}:  23,
	{"33211", 1, 1, "3"}:     24,
	{"33211", 1, 2, "33"}:    25,
	{"33211", 1, 3, "123"}:   26,
	{"32221", 1, 1, "2"}:     27,
	{"32221", 1, 2, "13"}:    28,
	{"32221", 1, 2, "23"}:    29,
	{"32221", 1, 3, "222"}:   30,
	{"42211", 1, 1, "4"}:     31,
	{"42211", 1, 2, "24"}:    32,
	{"42211", 1, 4, "1122"}:  33,
	{"22222", 0, 2, "22"}:    34,
	{"32221", 0, 1, "3"}:     35,
	{"32221", 0, 2, "22"}:    36,
	{"32221", 0, 2, "23"}:    37,
	{"32221", 0, 3, "122"}:   38,
	{"43221", 2, 1, "4"}:     39,
	{"43221", 2, 2, "34"}:    40,
	{"43221", 2, 3, "224"}:   41,
	{"43221", 2, 4, "1223"}:  42,
	{"42222", 2, 2, "24"}:    43,
	{"42222", 2, 4, "2222"}:  44,
	{"33321", 2, 1, "3"}:     45,
	{"33321", 2, 2, "33"}:    46,
	{"33321", 2, 3, "133"}:   47,
	{"33321", 2, 3, "233"}:   48,
	{"33222", 0, 2, "33"}:    49,
	{"33222", 0, 3, "222"}:   50,
	{"33222", 1, 2, "23"}:    51,
	{"33222", 1, 2, "33"}:    52,
	{"33222", 1, 3, "223"}:   53,
	{"44222", 3, 2, "44"}:    54,
	{"44222", 3, 4, "2224"}:  55,
	{"43331", 4, 1, "4"}:     56,
	{"43331", 4, 3, "334"}:   57,
	{"43331", 4, 4, "1333"}:  58,
	{"43322", 3, 2, "34"}:    59,
	{"43322", 3, 3, "234"}:   60,
	{"43322", 3, 4, "2233"}:  61,
	{"33332", 2, 2, "33"}:    62,
	{"33332", 2, 3, "233"}:   63,
	{"33332", 2, 3, "333"}:   64,
	{"44332", 5, 2, "44"}:    65,
	{"44332", 5, 3, "344"}:   66,
	{"44332", 5, 4, "2334"}:  67,
	{"43333", 4, 3, "334"}:   68,
	{"43333", 4, 4, "3333"}:  69,
	{"44433", 7, 3, "444"}:   70,
	{"44433", 7, 4, "3344"}:  71,
	{"44444", 10, 4, "4444"}: 72,
}

var edgeOrbitTable = map[edgeSignature]int{
	{"211", 0, "12", 0}:    0,
	{"222", 1, "22", 1}:    1,
	{"2211", 0, "12", 0}:   2,
	{"2211", 0, "22", 0}:   3,
	{"3111", 0, "13", 0}:   4,
	{"2222", 0, "22", 0}:   5,
	{"3221", 1, "13", 0}:   6,
	{"3221", 1, "22", 1}:   7,
	{"3221", 1, "23", 1}:   8,
	{"3322", 2, "23", 1}:   9,
	{"3322", 2, "33", 2}:   10,
	{"3333", 4, "33", 2}:   11,
	{"22211", 0, "12", 0}:  12,
	{"22211", 0, "22", 0}:  13,
	{"32111", 0, "12", 0}:  14,
	{"32111", 0, "13", 0}:  15,
	{"32111", 0, "23", 0}:  16,
	{"41111", 0, "14", 0}:  17,
	{"33211", 1, "13", 0}:  18,
	{"33211", 1, "23", 1}:  19,
	{"33211", 1, "33", 1}:  20,
	{"32221", 1, "12", 0}:  21,
	{"32221", 1, "22", 1}:  22,
	{"32221", 1, "23", 0}:  23,
	{"32221", 1, "23", 1}:  24,
	{"42211", 1, "14", 0}:  25,
	{"42211", 1, "22", 1}:  26,
	{"42211", 1, "24", 1}:  27,
	{"22222", 0, "22", 0}:  28,
	{"32221", 0, "13", 0}:  29,
	{"32221", 0, "22", 0}:  30,
	{"32221", 0, "23", 0}:  31,
	{"43221", 2, "14", 0}:  32,
	{"43221", 2, "23", 1}:  33,
	{"43221", 2, "24", 1}:  34,
	{"43221", 2, "34", 2}:  35,
	{"42222", 2, "22", 1}:  36,
	{"42222", 2, "24", 1}:  37,
	{"33321", 2, "13", 0}:  38,
	{"33321", 2, "23", 1}:  39,
	{"33321", 2, "33", 1}:  40,
	{"33321", 2, "33", 2}:  41,
	{"33222", 0, "23", 0}:  42,
	{"33222", 1, "22", 0}:  43,
	{"33222", 1, "23", 0}:  44,
	{"33222", 1, "23", 1}:  45,
	{"33222", 1, "33", 1}:  46,
	{"44222", 3, "24", 1}:  47,
	{"44222", 3, "44", 3}:  48,
	{"43331", 4, "14", 0}:  49,
	{"43331", 4, "33", 2}:  50,
	{"43331", 4, "34", 2}:  51,
	{"43322", 3, "23", 1}:  52,
	{"43322", 3, "24", 1}:  53,
	{"43322", 3, "33", 1}:  54,
	{"43322", 3, "34", 2}:  55,
	{"33332", 2, "23", 0}:  56,
	{"33332", 2, "33", 1}:  57,
	{"33332", 2, "33", 2}:  58,
	{"44332", 5, "24", 1}:  59,
	{"44332", 5, "33", 2}:  60,
	{"44332", 5, "34", 2}:  61,
	{"44332", 5, "44", 3}:  62,
	{"43333", 4, "33", 1}:  63,
	{"43333", 4, "34", 2}:  64,
	{"44433", 7, "34", 2}:  65,
	{"44433", 7, "44", 3}:  66,
	{"44444", 10, "44", 3}: 67,
}
