package corpus

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"
)

var ErrUngroupable = errors.New("group too small for requested split")

// UngroupableError reports a group whose split would leave a subset empty.
type UngroupableError struct {
	Key              string
	Size             int
	Train, Dev, Test int
}

func (e *UngroupableError) Error() string {
	s := fmt.Sprintf("%v: size=%d train=%d dev=%d test=%d, all counts must be positive",
		ErrUngroupable, e.Size, e.Train, e.Dev, e.Test)
	if e.Key != "" {
		s = fmt.Sprintf("speaker %s: %s", e.Key, s)
	}
	return s
}

func (e *UngroupableError) Unwrap() error { return ErrUngroupable }

// Partition is one group's records divided into three disjoint subsets.
type Partition struct {
	Train, Dev, Test []Record
}

// Counts returns subset sizes for a group of n records. Dev and test round up
// so neither is starved; train takes the remainder and may be zero or negative.
func Counts(n int, devPct, testPct float64) (train, dev, test int) {
	dev = int(math.Ceil(devPct * float64(n)))
	test = int(math.Ceil(testPct * float64(n)))
	return n - dev - test, dev, test
}

// Split randomly partitions records into train/dev/test. Each selected subset
// keeps input order. rng must not be shared across goroutines.
func Split(rng *rand.Rand, records []Record, devPct, testPct float64) (Partition, error) {
	n := len(records)
	numTrain, numDev, numTest := Counts(n, devPct, testPct)
	if numTrain <= 0 || numDev <= 0 || numTest <= 0 {
		return Partition{}, &UngroupableError{Size: n, Train: numTrain, Dev: numDev, Test: numTest}
	}

	perm := rng.Perm(n)
	devIdx := perm[:numDev]
	testIdx := perm[numDev : numDev+numTest]
	trainIdx := perm[numDev+numTest:]

	return Partition{
		Train: pick(records, trainIdx),
		Dev:   pick(records, devIdx),
		Test:  pick(records, testIdx),
	}, nil
}

func pick(records []Record, idx []int) []Record {
	sort.Ints(idx)
	out := make([]Record, len(idx))
	for i, j := range idx {
		out[i] = records[j]
	}
	return out
}
